// Package config provides functionality for managing configuration options
// for the application using command-line flags, environment variables and
// an optional JSON config file.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Addr defines the server's listening address (ip:port).
	Addr string

	// MongoURI holds the MongoDB connection string for the application.
	MongoURI string

	// MongoDatabase is the name of the database to use.
	MongoDatabase string

	// JWTSecret is the signing key for issued tokens. Its absence is a
	// fatal startup condition checked by the caller.
	JWTSecret string

	// Config is the path to the Config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Addr, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.MongoURI, "d", "mongodb://localhost:27017", "mongodb connection uri")
	flag.StringVar(&options.MongoDatabase, "n", "taskhub", "mongodb database name")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. A .env file in the working directory is loaded
// first, if present. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Populate the environment from a local .env file when available.
	_ = godotenv.Load()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Addr = serverAddress
	}
	if mongoURI := os.Getenv("MONGODB_URI"); mongoURI != "" {
		options.MongoURI = mongoURI
	}
	if mongoDatabase := os.Getenv("MONGODB_DATABASE"); mongoDatabase != "" {
		options.MongoDatabase = mongoDatabase
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		options.JWTSecret = secret
	}

	return options
}
