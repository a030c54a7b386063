package config

import (
	"math/big"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github/pubterm/terminal-agent/internal/util"
)

// EchoServer holds the HTTP listener settings.
type EchoServer struct {
	ListenAddress                  string
	HideInternalServerErrorDetails bool
}

// Logger holds the global zerolog settings.
type Logger struct {
	Level              zerolog.Level
	RequestLevel       zerolog.Level
	PrettyPrintConsole bool
}

// Terminal holds the Public Terminal deployment parameters. The pinned entry
// point name and the pin price multiplier differ between deployments, so both
// are configuration rather than constants.
type Terminal struct {
	APIBaseURL       string
	RPCURL           string
	ContractAddress  string
	BasePriceWei     *big.Int
	PinMultiplier    int64
	MintMethod       string
	PinMethod        string
	DefaultFeedCount int
}

// Server bundles every runtime setting of the service.
type Server struct {
	Echo     EchoServer
	Logger   Logger
	Agent    Agent
	Terminal Terminal
}

// DefaultServiceConfigFromEnv assembles the full service config from the
// environment. It never fails; identity validation happens separately via
// Agent.Resolve, which is the only raising step of configuration.
func DefaultServiceConfigFromEnv() Server {
	util.DotEnvTryLoad(".env.local")

	return Server{
		Echo: EchoServer{
			ListenAddress:                  util.GetEnv("SERVER_ECHO_LISTEN_ADDRESS", ":8080"),
			HideInternalServerErrorDetails: util.GetEnvAsBool("SERVER_ECHO_HIDE_INTERNAL_SERVER_ERROR_DETAILS", true),
		},
		Logger: Logger{
			Level:              util.LogLevelFromString(util.GetEnv("SERVER_LOGGER_LEVEL", zerolog.InfoLevel.String())),
			RequestLevel:       util.LogLevelFromString(util.GetEnv("SERVER_LOGGER_REQUEST_LEVEL", zerolog.DebugLevel.String())),
			PrettyPrintConsole: util.GetEnvAsBool("SERVER_LOGGER_PRETTY_PRINT_CONSOLE", false),
		},
		Agent: Agent{
			FID:        util.GetEnv("TERMINAL_AGENT_FID", ""),
			Username:   util.GetEnv("TERMINAL_AGENT_USERNAME", ""),
			PrivateKey: util.GetEnv("TERMINAL_AGENT_PRIVATE_KEY", ""),
		},
		Terminal: Terminal{
			APIBaseURL:       util.GetEnv("TERMINAL_API_BASE_URL", "https://terminal.purple.construction"),
			RPCURL:           util.GetEnv("TERMINAL_RPC_URL", "https://mainnet.base.org"),
			ContractAddress:  util.GetEnv("PUBLIC_TERMINAL_CONTRACT_ADDRESS", "0x9A0e7d96C2296bd2Ba1E77A24a4bD38E1f06e56B"),
			BasePriceWei:     util.GetEnvAsBigInt("PUBLIC_TERMINAL_BASE_PRICE_WEI", big.NewInt(100000000000000)),
			PinMultiplier:    int64(util.GetEnvAsInt("PUBLIC_TERMINAL_PIN_MULTIPLIER", 10)),
			MintMethod:       util.GetEnv("PUBLIC_TERMINAL_MINT_METHOD", "mint"),
			PinMethod:        util.GetEnv("PUBLIC_TERMINAL_PIN_METHOD", "mintSticky"),
			DefaultFeedCount: util.GetEnvAsInt("PUBLIC_TERMINAL_DEFAULT_FEED_COUNT", 50),
		},
	}
}

// Apply configures the global zerolog logger from the settings.
func (c Logger) Apply() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(c.Level)

	if c.PrettyPrintConsole {
		log.Logger = log.Output(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.TimeFormat = "15:04:05"
		}))
	}
}
