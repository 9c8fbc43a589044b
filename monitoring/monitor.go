// Package monitoring serves the state of a running simulation over HTTP and
// lets a user pause and continue it.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/stockflow/monitoring/web"
	"github.com/sarchlab/stockflow/sim"
)

// A Source exposes the quantities and flags of a model at the latest
// evaluated time. *stockflow.Model implements it.
type Source interface {
	Names() []string
	FlagNames() []string
	Value(name string) (float64, error)
	Flag(name string) (bool, error)
}

// EventStatus is what the monitor knows about an event after a step.
type EventStatus struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Kind      string   `json:"kind"`
	FireCount uint64   `json:"fire_count"`
	Next      *float64 `json:"next"`
}

// Firing is an event firing seen by the monitor.
type Firing struct {
	Time    float64  `json:"time"`
	EventID string   `json:"event_id"`
	Event   string   `json:"event"`
	Changes []string `json:"changes"`
}

const maxRecentFirings = 100

// Monitor can turn a simulation into a server and allows external monitoring
// controlling of the simulation. It is a hook that copies the model state
// after every step, so the HTTP handlers never touch the model.
type Monitor struct {
	source          Source
	portNumber      int
	openBrowser     bool
	profileDuration time.Duration

	lock       sync.Mutex
	now        sim.VTime
	quantities map[string]float64
	flags      map[string]bool
	events     []EventStatus
	firings    []Firing

	pauseLock sync.Mutex
	resume    *sync.Cond
	paused    bool

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
	stepBar          *ProgressBar
}

// NewMonitor creates a new Monitor that reads the given source.
func NewMonitor(source Source) *Monitor {
	m := &Monitor{
		source:          source,
		profileDuration: time.Second,
		quantities:      map[string]float64{},
		flags:           map[string]bool{},
	}
	m.resume = sync.NewCond(&m.pauseLock)

	return m
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithBrowser makes StartServer open the monitor page in a browser.
func (m *Monitor) WithBrowser(open bool) *Monitor {
	m.openBrowser = open
	return m
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        sim.GetIDGenerator().Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars

	if m.stepBar == pb {
		m.stepBar = nil
	}
}

// TrackSteps creates a progress bar that advances after every step.
func (m *Monitor) TrackSteps(total uint64) *ProgressBar {
	bar := m.CreateProgressBar("Steps", total)

	m.progressBarsLock.Lock()
	m.stepBar = bar
	m.progressBarsLock.Unlock()

	return bar
}

// Pause makes the simulation stop after the step in progress.
func (m *Monitor) Pause() {
	m.pauseLock.Lock()
	defer m.pauseLock.Unlock()

	m.paused = true
}

// Continue resumes a paused simulation.
func (m *Monitor) Continue() {
	m.pauseLock.Lock()
	defer m.pauseLock.Unlock()

	m.paused = false
	m.resume.Broadcast()
}

func (m *Monitor) isPaused() bool {
	m.pauseLock.Lock()
	defer m.pauseLock.Unlock()

	return m.paused
}

func (m *Monitor) waitWhilePaused() {
	m.pauseLock.Lock()
	defer m.pauseLock.Unlock()

	for m.paused {
		m.resume.Wait()
	}
}

// Func updates the monitor at the hook positions of a scheduler.
func (m *Monitor) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case sim.HookPosEventFired:
		m.recordFiring(ctx)
	case sim.HookPosAfterStep:
		m.takeSnapshot(ctx)
		m.advanceStepBar()
		m.waitWhilePaused()
	}
}

func (m *Monitor) recordFiring(ctx sim.HookCtx) {
	evt := ctx.Item.(*sim.Event)
	changes, _ := ctx.Detail.(sim.ChangeSet)

	now := sim.VTime(0)
	if s, ok := ctx.Domain.(*sim.Scheduler); ok {
		now = s.Now()
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	m.firings = append(m.firings, Firing{
		Time:    float64(now),
		EventID: evt.ID,
		Event:   evt.Name(),
		Changes: changes.Keys(),
	})

	if len(m.firings) > maxRecentFirings {
		m.firings = m.firings[len(m.firings)-maxRecentFirings:]
	}
}

func (m *Monitor) takeSnapshot(ctx sim.HookCtx) {
	quantities := make(map[string]float64)
	for _, name := range m.source.Names() {
		v, err := m.source.Value(name)
		dieOnErr(err)

		quantities[name] = v
	}

	flags := make(map[string]bool)
	for _, name := range m.source.FlagNames() {
		v, err := m.source.Flag(name)
		dieOnErr(err)

		flags[name] = v
	}

	var events []EventStatus
	if s, ok := ctx.Domain.(*sim.Scheduler); ok {
		events = eventStatuses(s.Events())
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	m.now = ctx.Item.(sim.VTime)
	m.quantities = quantities
	m.flags = flags
	m.events = events
}

func eventStatuses(events []*sim.Event) []EventStatus {
	statuses := make([]EventStatus, 0, len(events))

	for _, e := range events {
		status := EventStatus{
			ID:        e.ID,
			Name:      e.Name(),
			Kind:      e.Kind().String(),
			FireCount: e.FireCount(),
		}

		if next, ok := e.NextOccurrence(); ok {
			t := float64(next)
			status.Next = &t
		}

		statuses = append(statuses, status)
	}

	return statuses
}

func (m *Monitor) advanceStepBar() {
	m.progressBarsLock.Lock()
	bar := m.stepBar
	m.progressBarsLock.Unlock()

	if bar != nil {
		bar.IncrementFinished(1)
	}
}

// Handler returns the router that serves the monitor API and pages.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pauseSimulation)
	r.HandleFunc("/api/continue", m.continueSimulation)
	r.HandleFunc("/api/now", m.reportNow)
	r.HandleFunc("/api/quantities", m.listQuantities)
	r.HandleFunc("/api/quantity/{name}", m.reportQuantity)
	r.HandleFunc("/api/flags", m.listFlags)
	r.HandleFunc("/api/events", m.listEvents)
	r.HandleFunc("/api/event/{name}", m.reportEvent)
	r.HandleFunc("/api/firings", m.listFirings)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts the monitor as a web server and returns its URL.
func (m *Monitor) StartServer() string {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	handler := m.Handler()

	go func() {
		err := http.Serve(listener, handler)
		dieOnErr(err)
	}()

	if m.openBrowser {
		if err := browser.OpenURL(url); err != nil {
			log.Printf("cannot open browser: %v", err)
		}
	}

	return url
}

func (m *Monitor) pauseSimulation(w http.ResponseWriter, _ *http.Request) {
	m.Pause()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) continueSimulation(w http.ResponseWriter, _ *http.Request) {
	m.Continue()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) reportNow(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	now := m.now
	m.lock.Unlock()

	fmt.Fprintf(w, "{\"now\":%.10f,\"paused\":%t}", float64(now), m.isPaused())
}

func (m *Monitor) listQuantities(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	defer m.lock.Unlock()

	writeJSON(w, m.quantities)
}

func (m *Monitor) reportQuantity(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	m.lock.Lock()
	v, ok := m.quantities[name]
	m.lock.Unlock()

	if !ok {
		notFound(w, "Quantity not found")
		return
	}

	writeJSON(w, map[string]float64{name: v})
}

func (m *Monitor) listFlags(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	defer m.lock.Unlock()

	writeJSON(w, m.flags)
}

func (m *Monitor) listEvents(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	defer m.lock.Unlock()

	events := m.events
	if events == nil {
		events = []EventStatus{}
	}

	writeJSON(w, events)
}

func (m *Monitor) reportEvent(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	m.lock.Lock()
	var status *EventStatus
	for i := range m.events {
		if m.events[i].Name == name {
			s := m.events[i]
			status = &s
		}
	}
	m.lock.Unlock()

	if status == nil {
		notFound(w, "Event not found")
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(status)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

func (m *Monitor) listFirings(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	defer m.lock.Unlock()

	firings := m.firings
	if firings == nil {
		firings = []Firing{}
	}

	writeJSON(w, firings)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	bars := make([]progressRsp, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		bars = append(bars, b.snapshot())
	}
	m.progressBarsLock.Unlock()

	writeJSON(w, bars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	time.Sleep(m.profileDuration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func notFound(w http.ResponseWriter, msg string) {
	w.WriteHeader(http.StatusNotFound)
	_, err := w.Write([]byte(msg))
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
