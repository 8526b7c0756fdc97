package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	MazeFile       string // Path of the maze file
	MazeGenerate   string // Rooms as WIDTHxHEIGHT; when set a maze is generated instead of read
	TickMS         int    // Tick cadence in milliseconds
	StaggerMS      int    // Start delay step between roster entries in milliseconds
	DwarfRoster    string // Comma separated strategy kinds in roster order
	RNGSeed        int64  // Seed for the teleport strategy, 0 picks one from the clock
	ClearOnArrival bool   // Remove arrived dwarfs from the view
	SkipSizeCheck  bool   // Skip the console size pause before the run
	SpectatorAddr  string // Listen address of the spectator API, empty disables it
	GinMode        string // Mode for the Gin framework (e.g., release, debug, test)
	JWTSecret      string // Secret key for spectator tokens, empty leaves the stream open
	JWTIssuer      string // Issuer claim for spectator tokens
	RedisAddr      string // Redis address for frame fan-out, empty disables it
	RedisChannel   string // Redis channel frames are published on
	LogDebug       bool   // Emit per-tick debug lines
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = initConfig()

// initConfig initializes and returns the application configuration.
// It loads environment variables from a .env file.
func initConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Debug(".env file not found or could not be loaded", "err", err)
	}

	return Config{
		MazeFile:       getEnvWithDefault("MAZE_FILE", "Maze.dat"),
		MazeGenerate:   getEnvWithDefault("MAZE_GENERATE", ""),
		TickMS:         getEnvAsIntWithDefault("TICK_MS", 100),
		StaggerMS:      getEnvAsIntWithDefault("STAGGER_MS", 5000),
		DwarfRoster:    getEnvWithDefault("DWARF_ROSTER", "leftwall,rightwall,pathfollow,randomport"),
		RNGSeed:        int64(getEnvAsIntWithDefault("RNG_SEED", 0)),
		ClearOnArrival: getEnvAsBoolWithDefault("CLEAR_ON_ARRIVAL", true),
		SkipSizeCheck:  getEnvAsBoolWithDefault("SKIP_SIZE_CHECK", false),
		SpectatorAddr:  getEnvWithDefault("SPECTATOR_ADDR", ""),
		GinMode:        getEnvWithDefault("GIN_MODE", "release"),
		JWTSecret:      getEnvWithDefault("JWT_SECRET", ""),
		JWTIssuer:      getEnvWithDefault("JWT_ISSUER", "vinom-dwarfs"),
		RedisAddr:      getEnvWithDefault("REDIS_ADDR", ""),
		RedisChannel:   getEnvWithDefault("REDIS_CHANNEL", "dwarfs:frames"),
		LogDebug:       getEnvAsBoolWithDefault("LOG_DEBUG", false),
	}
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsIntWithDefault falls back to defaultValue when the variable is unset or not an integer.
func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(strings.TrimSpace(valueStr))
	if err != nil {
		log.Warn("environment variable must be an integer, using default", "key", key, "default", defaultValue, "err", err)
		return defaultValue
	}
	return value
}

// getEnvAsBoolWithDefault accepts anything strconv.ParseBool does.
func getEnvAsBoolWithDefault(key string, defaultValue bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseBool(strings.TrimSpace(valueStr))
	if err != nil {
		log.Warn("environment variable must be a boolean, using default", "key", key, "default", defaultValue, "err", err)
		return defaultValue
	}
	return value
}
