package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akamensky/argparse"
	"github.com/beka-birhanu/vinom-dwarfs/api"
	api_i "github.com/beka-birhanu/vinom-dwarfs/api/i"
	"github.com/beka-birhanu/vinom-dwarfs/api/identity"
	spectatorapi "github.com/beka-birhanu/vinom-dwarfs/api/spectator"
	"github.com/beka-birhanu/vinom-dwarfs/config"
	"github.com/beka-birhanu/vinom-dwarfs/game"
	jsonenc "github.com/beka-birhanu/vinom-dwarfs/game/json_encoder"
	"github.com/beka-birhanu/vinom-dwarfs/infrastruture/console"
	logger "github.com/beka-birhanu/vinom-dwarfs/infrastruture/log"
	"github.com/beka-birhanu/vinom-dwarfs/infrastruture/publisher"
	"github.com/beka-birhanu/vinom-dwarfs/infrastruture/render"
	"github.com/beka-birhanu/vinom-dwarfs/infrastruture/terminal"
	"github.com/beka-birhanu/vinom-dwarfs/infrastruture/token"
	"github.com/beka-birhanu/vinom-dwarfs/maze"
	"github.com/beka-birhanu/vinom-dwarfs/service"
	"github.com/beka-birhanu/vinom-dwarfs/service/i"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const spectatorTokenTTL = time.Hour

// options are the effective settings: environment first, flags on top.
type options struct {
	mazeFile       string
	generate       string
	roster         string
	seed           int64
	tick           time.Duration
	stagger        time.Duration
	clearOnArrival bool
	skipSizeCheck  bool
	spectatorAddr  string
	debug          bool
}

// Global variables for dependencies
var (
	appLogger        *logger.Logger
	opts             options
	grid             *maze.Grid
	terminalRenderer *terminal.Renderer
	frameEncoder     *jsonenc.JSON
	spectatorHub     *spectatorapi.Hub
	framePublisher   *publisher.RedisFramePublisher
	redisClient      *redis.Client
	session          *service.Session
	jwtTokenizer     i.Tokenizer
	router           *api.Router
)

func parseFlags() {
	parser := argparse.NewParser("vinom-dwarfs", "Dwarfs racing through a maze with different strategies")
	mazeFile := parser.String("m", "maze", &argparse.Options{Default: config.Envs.MazeFile, Help: "maze file"})
	generate := parser.String("G", "generate", &argparse.Options{Default: config.Envs.MazeGenerate, Help: "generate a WIDTHxHEIGHT room maze instead of reading one"})
	roster := parser.String("r", "roster", &argparse.Options{Default: config.Envs.DwarfRoster, Help: "comma separated strategies: leftwall, rightwall, pathfollow, randomport"})
	seed := parser.Int("s", "seed", &argparse.Options{Default: int(config.Envs.RNGSeed), Help: "teleport seed, 0 picks one"})
	tick := parser.Int("t", "tick", &argparse.Options{Default: config.Envs.TickMS, Help: "tick interval in milliseconds"})
	stagger := parser.Int("g", "stagger", &argparse.Options{Default: config.Envs.StaggerMS, Help: "start delay between dwarfs in milliseconds"})
	noPause := parser.Flag("p", "no-pause", &argparse.Options{Help: "skip the console size check"})
	keepArrived := parser.Flag("k", "keep-arrived", &argparse.Options{Help: "keep arrived dwarfs on the maze"})
	spectatorAddr := parser.String("a", "spectator-addr", &argparse.Options{Default: config.Envs.SpectatorAddr, Help: "serve the spectator API on this address"})
	debug := parser.Flag("d", "debug", &argparse.Options{Help: "log every tick"})

	if err := parser.Parse(os.Args); err != nil {
		fmt.Fprint(os.Stderr, parser.Usage(err))
		os.Exit(1)
	}

	opts = options{
		mazeFile:       *mazeFile,
		generate:       *generate,
		roster:         *roster,
		seed:           int64(*seed),
		tick:           time.Duration(*tick) * time.Millisecond,
		stagger:        time.Duration(*stagger) * time.Millisecond,
		clearOnArrival: config.Envs.ClearOnArrival && !*keepArrived,
		skipSizeCheck:  config.Envs.SkipSizeCheck || *noPause,
		spectatorAddr:  *spectatorAddr,
		debug:          config.Envs.LogDebug || *debug,
	}
	appLogger.SetDebug(opts.debug)
}

func newLogger(prefix, color string) *logger.Logger {
	l, err := logger.New(prefix, color, os.Stderr)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating %s logger: %v", prefix, err))
		os.Exit(1)
	}
	l.SetDebug(opts.debug)
	return l
}

func initGrid() {
	var source maze.Source = maze.FileSource{Path: opts.mazeFile}
	origin := opts.mazeFile
	if opts.generate != "" {
		width, height, err := maze.ParseSize(opts.generate)
		if err != nil {
			appLogger.Error(fmt.Sprintf("Generating maze: %v", err))
			os.Exit(1)
		}
		seed := opts.seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		source = maze.GeneratedSource{Width: width, Height: height, Seed: seed}
		origin = fmt.Sprintf("generator (seed %d)", seed)
	}

	var err error
	grid, err = maze.Load(source)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Loading maze: %v", err))
		os.Exit(1)
	}
	appLogger.Info(fmt.Sprintf("Loaded %dx%d maze from %s", grid.Width(), grid.Height(), origin))
}

func initRenderers() {
	terminalRenderer = terminal.NewRenderer(os.Stdout, terminal.Options{
		Styles: map[rune]string{
			'L': config.ColorGreen,
			'R': config.ColorBlue,
			'P': config.ColorMagenta,
			'T': config.ColorYellow,
		},
	})
	frameEncoder = &jsonenc.JSON{}
	appLogger.Info("Terminal renderer initialized")
}

func initSpectatorHub() {
	if opts.spectatorAddr == "" {
		return
	}
	spectatorHub = spectatorapi.NewHub(frameEncoder, newLogger("SPECTATOR", config.ColorMagenta))
	appLogger.Info("Spectator hub initialized")
}

func initPublisher(ctx context.Context) {
	if config.Envs.RedisAddr == "" {
		return
	}

	redisClient = redis.NewClient(&redis.Options{Addr: config.Envs.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Error(fmt.Sprintf("Redis ping failed: %v", err))
		os.Exit(1)
	}

	var err error
	framePublisher, err = publisher.NewRedisFramePublisher(redisClient, publisher.Config{
		Channel: config.Envs.RedisChannel,
		Encoder: &jsonenc.JSON{OmitMaze: true},
		Logger:  newLogger("PUBLISHER", config.ColorBlue),
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating frame publisher: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Frame publisher initialized")
}

// claimPublisher takes the channel lock right before the run so the size
// pause cannot outlive it.
func claimPublisher(ctx context.Context) {
	if framePublisher == nil {
		return
	}
	if err := framePublisher.Claim(ctx); err != nil {
		appLogger.Error(fmt.Sprintf("Claiming redis channel: %v", err))
		shutdown()
		os.Exit(1)
	}
	appLogger.Info(fmt.Sprintf("Publishing frames on redis channel %s", config.Envs.RedisChannel))
}

func initSession() {
	roster, err := service.DefaultRoster(service.ParseKinds(opts.roster), opts.stagger)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Building roster: %v", err))
		os.Exit(1)
	}

	renderers := render.Multi{terminalRenderer}
	if spectatorHub != nil {
		renderers = append(renderers, spectatorHub)
	}
	if framePublisher != nil {
		renderers = append(renderers, framePublisher)
	}

	session, err = service.NewSession(service.SessionConfig{
		Grid:           grid,
		Roster:         roster,
		Renderer:       renderers,
		Clock:          game.WallClock(),
		Tick:           opts.tick,
		Seed:           opts.seed,
		ClearOnArrival: opts.clearOnArrival,
		Logger:         newLogger("SIMULATION", config.ColorCyan),
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating simulation: %v", err))
		os.Exit(1)
	}
	appLogger.Info(fmt.Sprintf("Session %s initialized with seed %d", session.ID(), session.Seed()))
}

func initJWTTokenizer() {
	if config.Envs.JWTSecret == "" {
		return
	}

	var err error
	jwtTokenizer, err = token.NewJwtService(config.Envs.JWTSecret, config.Envs.JWTIssuer)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating JWT tokenizer: %v", err))
		os.Exit(1)
	}

	spectatorToken, err := jwtTokenizer.Generate(map[string]interface{}{
		"run_id": session.ID().String(),
		"role":   "spectator",
	}, spectatorTokenTTL)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Issuing spectator token: %v", err))
		os.Exit(1)
	}
	appLogger.Info(fmt.Sprintf("Spectator token: %s", spectatorToken))
}

func initRouter() {
	if spectatorHub == nil {
		return
	}
	gin.SetMode(config.Envs.GinMode)

	controller, err := spectatorapi.NewSimulationController(session, frameEncoder, spectatorHub)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating spectator controller: %v", err))
		os.Exit(1)
	}

	var authorization gin.HandlerFunc
	if jwtTokenizer != nil {
		authorization = identity.Authoriz(jwtTokenizer)
	}
	router = api.NewRouter(api.Config{
		Addr:                    opts.spectatorAddr,
		BaseURL:                 "/api",
		Controllers:             []api_i.Controller{controller},
		AuthorizationMiddleware: authorization,
		Logger:                  newLogger("API", config.ColorYellow),
	})
	appLogger.Info(fmt.Sprintf("Spectator API listening on %s", opts.spectatorAddr))
}

func ensureConsoleSize() {
	if opts.skipSizeCheck {
		return
	}
	gate := console.NewGate(console.TerminalSize(os.Stdout), os.Stdin, os.Stdout)
	if err := gate.EnsureSize(console.Required(grid.Width(), grid.Height())); err != nil {
		appLogger.Error(fmt.Sprintf("Console size check: %v", err))
		os.Exit(1)
	}
}

func shutdown() {
	if spectatorHub != nil {
		spectatorHub.Close()
	}
	if framePublisher != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := framePublisher.Close(ctx); err != nil {
			appLogger.Warning(fmt.Sprintf("Releasing redis channel: %v", err))
		}
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
}

func main() {
	appLogger, _ = logger.New("APP", config.ColorGreen, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	parseFlags()
	initGrid()
	initRenderers()
	initSpectatorHub()
	initPublisher(ctx)
	initSession()
	initJWTTokenizer()
	initRouter()
	defer shutdown()

	serverCtx, stopServer := context.WithCancel(ctx)
	defer stopServer()
	if router != nil {
		go func() {
			if err := router.Run(serverCtx); err != nil {
				appLogger.Error(fmt.Sprintf("Spectator API: %v", err))
			}
		}()
	}

	ensureConsoleSize()
	claimPublisher(ctx)

	if err := session.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			appLogger.Warning("Interrupted before every dwarf arrived")
		} else {
			appLogger.Error(fmt.Sprintf("Running simulation: %v", err))
		}
		shutdown()
		os.Exit(1)
	}

	if err := terminalRenderer.Finish(); err != nil {
		appLogger.Error(fmt.Sprintf("Writing final message: %v", err))
	}
}
