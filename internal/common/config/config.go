package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Relay struct {
		BridgeURL      string   `env:"RELAY_BRIDGE_URL,required"`
		ProjectID      string   `env:"RELAY_PROJECT_ID,required"`
		AppName        string   `env:"APP_NAME" envDefault:"Mint Portal"`
		AppDescription string   `env:"APP_DESCRIPTION" envDefault:"Tiered NFT mint portal"`
		AppURL         string   `env:"APP_URL" envDefault:"http://localhost:3000"`
		AppIcons       []string `env:"APP_ICONS" envSeparator:"," envDefault:"https://www.hashgraph.com/favicon.ico"`
	}

	Ledger struct {
		Network       string `env:"LEDGER_NETWORK" envDefault:"testnet"`
		MirrorNodeURL string `env:"MIRROR_NODE_URL" envDefault:"https://testnet.mirrornode.hedera.com"`
	}

	Mint struct {
		APIBaseURL        string `env:"MINT_API_URL,required"`
		TreasuryAccountID string `env:"TREASURY_ACCOUNT_ID,required"`
		TokenID           string `env:"NFT_TOKEN_ID" envDefault:""`
		MaxPerTransaction int    `env:"MAX_PER_TRANSACTION" envDefault:"10"`
	}

	IPFS struct {
		GatewayURL  string `env:"IPFS_GATEWAY_URL" envDefault:"https://ipfs.io/ipfs"`
		MetadataCID string `env:"METADATA_CID,required"`
	}
}

func Load() *Config {
	// .env is optional; in production variables are set directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}
