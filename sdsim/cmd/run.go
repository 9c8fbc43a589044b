package cmd

import (
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sarchlab/stockflow/datarecording"
	"github.com/sarchlab/stockflow/mind"
	"github.com/sarchlab/stockflow/monitoring"
	"github.com/sarchlab/stockflow/scenario"
	"github.com/sarchlab/stockflow/sim"
	"github.com/sarchlab/stockflow/stockflow"
)

func newRunCmd() *cobra.Command {
	cfg, err := LoadConfig()

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the model until a given time.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err != nil {
				return err
			}

			return runSimulation(cfg, cmd.OutOrStdout())
		},
	}

	cfg.bindFlags(runCmd.Flags())

	return runCmd
}

type runner struct {
	cfg   Config
	out   io.Writer
	model *stockflow.Model

	recorder    datarecording.DataRecorder
	runRecorder *datarecording.RunRecorder
	monitor     *monitoring.Monitor
	stepBar     *monitoring.ProgressBar
}

func runSimulation(cfg Config, out io.Writer) error {
	r := &runner{cfg: cfg, out: out}

	if err := r.validate(); err != nil {
		return err
	}

	if cfg.ParallelIDs {
		sim.UseParallelIDGenerator()
	}

	params, err := r.loadParameters()
	if err != nil {
		return err
	}

	dt := sim.VTime(cfg.StepSize)
	r.model = mind.New(params, dt)

	events, err := r.loadEvents()
	if err != nil {
		return err
	}

	hooks := r.setUpHooks()

	s, err := sim.MakeSchedulerBuilder().
		WithStepSize(dt).
		WithSeed(cfg.Seed).
		WithEvents(events...).
		WithHooks(hooks...).
		Build(r.model)
	if err == nil {
		err = s.StepTo(sim.VTime(cfg.Until))
	}

	r.finish()

	if err != nil {
		return err
	}

	if err := r.writeCSV(); err != nil {
		return err
	}

	r.summarize(s)

	return nil
}

func (r *runner) validate() error {
	if !(r.cfg.StepSize > 0) || math.IsInf(r.cfg.StepSize, 0) {
		return fmt.Errorf("%w: step size must be positive and finite, got %v",
			sim.ErrConfiguration, r.cfg.StepSize)
	}

	if !(r.cfg.Until >= 0) || math.IsInf(r.cfg.Until, 0) {
		return fmt.Errorf("%w: end time must be non-negative and finite, got %v",
			sim.ErrConfiguration, r.cfg.Until)
	}

	return nil
}

func (r *runner) loadParameters() (mind.Parameters, error) {
	if r.cfg.Params == "" {
		return mind.DefaultParameters(), nil
	}

	return mind.LoadParameters(r.cfg.Params)
}

func (r *runner) loadEvents() ([]*sim.Event, error) {
	if r.cfg.Scenario == "" {
		return nil, nil
	}

	sc, err := scenario.Load(r.cfg.Scenario)
	if err != nil {
		return nil, err
	}

	return sc.Compile(r.model)
}

func (r *runner) setUpHooks() []sim.Hook {
	var hooks []sim.Hook

	if r.cfg.LogEvents {
		hooks = append(hooks, sim.NewEventLogger(log.New(os.Stderr, "", 0)))
	}

	if r.cfg.Record {
		r.recorder = datarecording.New(r.cfg.DB)
		stepRecorder := datarecording.NewStepRecorder(r.recorder, r.model)
		r.runRecorder = datarecording.NewRunRecorder(
			r.recorder, stepRecorder.RunID())
		r.runRecorder.Start(r.runProperties())

		hooks = append(hooks, stepRecorder)
	}

	if r.cfg.Monitor {
		r.monitor = monitoring.NewMonitor(r.model).
			WithPortNumber(r.cfg.Port).
			WithBrowser(r.cfg.OpenBrowser)
		r.monitor.StartServer()

		steps := sim.StepIndex(sim.VTime(r.cfg.Until), sim.VTime(r.cfg.StepSize))
		r.stepBar = r.monitor.TrackSteps(uint64(steps) + 1)

		hooks = append(hooks, r.monitor)
	}

	return hooks
}

func (r *runner) runProperties() map[string]string {
	return map[string]string{
		"Params":   r.cfg.Params,
		"Scenario": r.cfg.Scenario,
		"Until":    strconv.FormatFloat(r.cfg.Until, 'g', -1, 64),
		"Step":     strconv.FormatFloat(r.cfg.StepSize, 'g', -1, 64),
		"Seed":     strconv.FormatUint(r.cfg.Seed, 10),
	}
}

func (r *runner) finish() {
	if r.runRecorder != nil {
		r.runRecorder.End()

		if err := r.recorder.Close(); err != nil {
			log.Printf("cannot close recording: %v", err)
		}
	}

	if r.monitor != nil {
		r.monitor.CompleteProgressBar(r.stepBar)
	}
}

func (r *runner) writeCSV() error {
	switch r.cfg.CSV {
	case "":
		return nil
	case "-":
		return r.model.WriteCSV(r.out)
	}

	f, err := os.Create(r.cfg.CSV)
	if err != nil {
		return err
	}

	if err := r.model.WriteCSV(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func (r *runner) summarize(s *sim.Scheduler) {
	if r.cfg.CSV == "-" {
		return
	}

	fmt.Fprintf(r.out, "t = %g\n", float64(s.Now()))

	for _, name := range []string{
		mind.DefeatHumiliation,
		mind.Entrapment,
		mind.SuicidalIdeation,
		mind.SuicidalBehavior,
		mind.Risk,
	} {
		v, err := r.model.Value(name)
		if err != nil {
			log.Panic(err)
		}

		fmt.Fprintf(r.out, "%-20s %g\n", name, v)
	}

	for _, e := range s.Events() {
		fmt.Fprintf(r.out, "event %-20s fired %d times\n",
			e.Name(), e.FireCount())
	}
}
