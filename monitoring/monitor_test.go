package monitoring

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/stockflow/sim"
	"github.com/sarchlab/stockflow/stockflow"
)

func newTank() *stockflow.Model {
	m := stockflow.New(1)
	m.Constant("inflow", 2)
	m.Stock("level", 0, func(v *stockflow.Values) float64 {
		return v.Get("inflow")
	})
	m.DeclareFlag("full", false)

	return m
}

func get(server *httptest.Server, path string) (int, []byte) {
	rsp, err := http.Get(server.URL + path)
	Expect(err).NotTo(HaveOccurred())
	defer rsp.Body.Close()

	body, err := io.ReadAll(rsp.Body)
	Expect(err).NotTo(HaveOccurred())

	return rsp.StatusCode, body
}

func getJSON(server *httptest.Server, path string, v any) {
	code, body := get(server, path)
	Expect(code).To(Equal(http.StatusOK))
	Expect(json.Unmarshal(body, v)).To(Succeed())
}

var _ = Describe("Monitor", func() {
	var (
		model     *stockflow.Model
		monitor   *Monitor
		server    *httptest.Server
		scheduler *sim.Scheduler
	)

	BeforeEach(func() {
		model = newTank()
		monitor = NewMonitor(model)
		server = httptest.NewServer(monitor.Handler())

		fill, err := sim.NewEvent("fill",
			sim.ActionFunc(func() sim.ChangeSet {
				return sim.ChangeSet{"full": true}
			}),
			sim.OneShot(2))
		Expect(err).NotTo(HaveOccurred())

		scheduler, err = sim.MakeSchedulerBuilder().
			WithEvents(fill).
			WithHooks(monitor).
			Build(model)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		monitor.Continue()
		server.Close()
	})

	It("should report the state after each step", func() {
		Expect(scheduler.StepTo(3)).To(Succeed())

		var now struct {
			Now    float64 `json:"now"`
			Paused bool    `json:"paused"`
		}
		getJSON(server, "/api/now", &now)
		Expect(now.Now).To(Equal(3.0))
		Expect(now.Paused).To(BeFalse())

		quantities := map[string]float64{}
		getJSON(server, "/api/quantities", &quantities)
		Expect(quantities).To(Equal(map[string]float64{
			"inflow": 2,
			"level":  6,
		}))

		flags := map[string]bool{}
		getJSON(server, "/api/flags", &flags)
		Expect(flags).To(Equal(map[string]bool{"full": true}))

		quantity := map[string]float64{}
		getJSON(server, "/api/quantity/level", &quantity)
		Expect(quantity).To(HaveKeyWithValue("level", 6.0))

		code, _ := get(server, "/api/quantity/volume")
		Expect(code).To(Equal(http.StatusNotFound))
	})

	It("should report events and firings", func() {
		Expect(scheduler.StepTo(3)).To(Succeed())

		var events []EventStatus
		getJSON(server, "/api/events", &events)
		Expect(events).To(HaveLen(1))
		Expect(events[0].ID).NotTo(BeEmpty())
		Expect(events[0].Name).To(Equal("fill"))
		Expect(events[0].Kind).To(Equal("timeout"))
		Expect(events[0].FireCount).To(Equal(uint64(1)))
		Expect(events[0].Next).To(BeNil())

		var firings []Firing
		getJSON(server, "/api/firings", &firings)
		Expect(firings).To(Equal([]Firing{
			{
				Time:    2,
				EventID: events[0].ID,
				Event:   "fill",
				Changes: []string{"full"},
			},
		}))

		code, body := get(server, "/api/event/fill")
		Expect(code).To(Equal(http.StatusOK))
		Expect(string(body)).To(ContainSubstring("fill"))

		code, _ = get(server, "/api/event/drain")
		Expect(code).To(Equal(http.StatusNotFound))
	})

	It("should pause and continue the step loop", func() {
		get(server, "/api/pause")

		done := make(chan struct{})
		go func() {
			defer GinkgoRecover()
			Expect(scheduler.StepTo(5)).To(Succeed())
			close(done)
		}()

		Consistently(done, 200*time.Millisecond).ShouldNot(BeClosed())

		var now struct {
			Now    float64 `json:"now"`
			Paused bool    `json:"paused"`
		}
		getJSON(server, "/api/now", &now)
		Expect(now.Now).To(Equal(1.0))
		Expect(now.Paused).To(BeTrue())

		get(server, "/api/continue")

		Eventually(done).Should(BeClosed())
		getJSON(server, "/api/now", &now)
		Expect(now.Now).To(Equal(5.0))
	})

	It("should track step progress", func() {
		bar := monitor.TrackSteps(3)
		Expect(scheduler.StepTo(3)).To(Succeed())

		var bars []progressRsp
		getJSON(server, "/api/progress", &bars)
		Expect(bars).To(HaveLen(1))
		Expect(bars[0].Name).To(Equal("Steps"))
		Expect(bars[0].Finished).To(Equal(uint64(3)))

		monitor.CompleteProgressBar(bar)
		getJSON(server, "/api/progress", &bars)
		Expect(bars).To(BeEmpty())

		Expect(scheduler.Step()).To(Succeed())
		Expect(bar.Finished).To(Equal(uint64(3)))
	})

	It("should report resource usage", func() {
		rsp := resourceRsp{}
		getJSON(server, "/api/resource", &rsp)

		Expect(rsp.MemorySize).To(BeNumerically(">", 0))
	})

	It("should collect a CPU profile", func() {
		monitor.profileDuration = 10 * time.Millisecond

		code, body := get(server, "/api/profile")

		Expect(code).To(Equal(http.StatusOK))
		Expect(string(body)).To(ContainSubstring("SampleType"))
	})

	It("should serve the web page", func() {
		code, body := get(server, "/")

		Expect(code).To(Equal(http.StatusOK))
		Expect(string(body)).To(HavePrefix("<!DOCTYPE html>"))
	})

	It("should reject reserved ports", func() {
		Expect(monitor.WithPortNumber(80).portNumber).To(Equal(0))
		Expect(monitor.WithPortNumber(8080).portNumber).To(Equal(8080))
	})
})
