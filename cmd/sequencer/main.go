package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/sequencer/assets"
	"github.com/milk9111/sequencer/control"
	"github.com/milk9111/sequencer/ecs"
	"github.com/milk9111/sequencer/ecs/binding"
	"github.com/milk9111/sequencer/ecs/system"
	"github.com/milk9111/sequencer/journal"
	"github.com/milk9111/sequencer/specs"
	"github.com/milk9111/sequencer/timeline"
	"golang.org/x/sync/errgroup"
)

const sampleRate = 44100

type options struct {
	timeline string
	assets   string
	httpAddr string
	journal  string
	session  string
	group    string
	script   string
	console  bool
	headless bool
	sampled  bool
	watch    bool
	once     bool
	debug    bool
	tps      int
}

func main() {
	var opts options
	flag.StringVar(&opts.timeline, "timeline", "demo.yaml", "timeline file in specs/timelines (or a path)")
	flag.StringVar(&specs.Dir, "specs", specs.Dir, "directory searched for timelines and scripts before the built-in copies")
	flag.StringVar(&opts.assets, "assets", "assets", "directory holding images and sounds")
	flag.StringVar(&opts.httpAddr, "http", ":8090", "control API address, empty to disable")
	flag.StringVar(&opts.journal, "journal", filepath.Join("data", "journal.db"), "sqlite journal path, empty to disable")
	flag.StringVar(&opts.session, "session", time.Now().Format("20060102-150405"), "journal session name")
	flag.StringVar(&opts.group, "group", "", "group to select on load, by name or index")
	flag.StringVar(&opts.script, "script", "", "director script, overrides the timeline's own")
	flag.BoolVar(&opts.console, "console", false, "read transport commands from the terminal")
	flag.BoolVar(&opts.headless, "headless", false, "run without a window or audio")
	flag.BoolVar(&opts.sampled, "sampled", false, "pose motion tracks from their clips instead of the animator")
	flag.BoolVar(&opts.watch, "watch", false, "reload the timeline and script when their files change")
	flag.BoolVar(&opts.once, "once", false, "exit at the first end of playback")
	flag.BoolVar(&opts.debug, "debug", false, "outline physics bodies")
	flag.IntVar(&opts.tps, "tps", 60, "headless ticks per second")
	flag.Parse()

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func run(opts options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var audioCtx *audio.Context
	if !opts.headless {
		audioCtx = audio.NewContext(sampleRate)
	}
	var clock *frameClock
	if opts.headless {
		clock = &frameClock{}
	}

	app, err := newApp(opts, audioCtx, clock)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	if opts.journal != "" {
		j, err := journal.Open(opts.journal, opts.session)
		if err != nil {
			return err
		}
		defer j.Close()
		app.journal = system.NewJournalSystem(64)
		app.world.AddSystem(app.journal)
		g.Go(func() error { return app.journal.Run(gctx, j) })
		log.Printf("sequencer: journal %s session %s", opts.journal, opts.session)
		startServer(gctx, g, opts.httpAddr, app.queue, j)
	} else {
		startServer(gctx, g, opts.httpAddr, app.queue, nil)
	}

	if opts.watch {
		startWatcher(gctx, g, app, opts.timeline)
	}

	if opts.console {
		c := control.NewConsole(app.queue)
		g.Go(func() error {
			err := c.Run(gctx)
			cancel()
			return err
		})
	}

	if opts.headless {
		err = runHeadless(gctx, app, clock, opts.tps, opts.once)
	} else {
		ebiten.SetWindowSize(baseWidth*2, baseHeight*2)
		ebiten.SetWindowTitle("sequencer: " + opts.timeline)
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
		err = ebiten.RunGame(NewGame(gctx, app, opts.once, opts.debug))
	}
	cancel()

	if werr := g.Wait(); err == nil {
		err = werr
	}
	if s := app.reloader.Scene(); s != nil {
		s.Destroy()
	}
	return err
}

func newApp(opts options, audioCtx *audio.Context, clock *frameClock) (*App, error) {
	world := ecs.NewWorld()
	builder := &specs.Builder{
		World:  world,
		Assets: assets.NewLibrary(os.DirFS(opts.assets), audioCtx),
		Rig:    binding.NewRig(world, audioCtx),
	}
	if clock != nil {
		builder.Clock = clock
	}
	if opts.sampled {
		ctx := timeline.ContextSampled
		builder.Context = &ctx
	}

	app := &App{
		world:    world,
		reloader: specs.NewReloader(builder, opts.timeline),
		queue:    control.NewQueue(),
		physics:  system.NewPhysicsSystem(),
		render:   system.NewRenderSystem(),
		script:   &scriptSlot{},
		ends:     &endWatcher{},
	}
	app.applier = &control.Applier{
		Sequencer: app.Sequencer,
		Reload:    app.reloader.Request,
	}
	app.reloader.OnLoad = func(scene *specs.Scene) {
		if opts.group == "" {
			return
		}
		index, err := control.ResolveGroup(scene.Sequencer.Groups(), opts.group)
		if err == nil {
			err = scene.Sequencer.SetGroup(index)
		}
		if err != nil {
			log.Printf("sequencer: group %s: %v", opts.group, err)
		}
	}

	world.AddSystem(system.NewSequencerSystem())
	world.AddSystem(system.NewAnimationSystem())
	world.AddSystem(system.NewAudioSystem())
	world.AddSystem(app.physics)
	world.AddSystem(system.NewScriptSystem(app.script))
	world.AddSystem(app.ends)

	scene, err := app.reloader.Load()
	if err != nil {
		return nil, err
	}
	log.Printf("sequencer: loaded %s (%d tracks, %.2fs)", opts.timeline, len(scene.Sequencer.Tracks()), scene.Sequencer.Length())

	app.scriptName = opts.script
	if app.scriptName == "" {
		app.scriptName = scene.Spec.Script
	}
	app.loadScript()
	app.queue.Publish(control.Capture(opts.timeline, scene.Sequencer))
	return app, nil
}

func startServer(ctx context.Context, g *errgroup.Group, addr string, queue *control.Queue, history control.History) {
	if addr == "" {
		return
	}
	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:    addr,
		Handler: control.NewServer(queue, history).Router(),
	}

	g.Go(func() error {
		log.Printf("sequencer: control API on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

func startWatcher(ctx context.Context, g *errgroup.Group, app *App, name string) {
	var dirs []string
	for _, sub := range []string{"timelines", "scripts"} {
		dir := filepath.Join(specs.Dir, sub)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		log.Printf("sequencer: nothing to watch under %s", specs.Dir)
		return
	}

	w, err := specs.NewWatcher(dirs...)
	if err != nil {
		log.Printf("sequencer: watch: %v", err)
		return
	}

	g.Go(func() error {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return nil
			case changed, ok := <-w.Events:
				if !ok {
					return nil
				}
				switch {
				case specs.Matches(changed, name):
					log.Printf("sequencer: %s changed", changed)
					app.queue.Push(control.Command{Op: control.OpReload})
				case app.scriptName != "" && filepath.Base(changed) == filepath.Base(app.scriptName):
					log.Printf("sequencer: %s changed", changed)
					app.scriptChanged.Store(true)
				}
			case err := <-w.Errors:
				log.Printf("sequencer: watch: %v", err)
			}
		}
	})
}
