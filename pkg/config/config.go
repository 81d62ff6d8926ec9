package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Generator GeneratorConfig
	Stream    StreamConfig
	Logger    LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type GeneratorConfig struct {
	URL     string
	Timeout time.Duration
}

// StreamConfig controls the pacing of streamed output. The pauses simulate
// incremental generation and are not functional requirements; tests run with
// all of them set to zero.
type StreamConfig struct {
	SectionPause   time.Duration
	DesignPause    time.Duration
	RetrievalPause time.Duration
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or project root
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}
	// No .env file is fine, environment variables are used directly
	// (useful for Docker/K8s)

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	generatorTimeout, _ := strconv.Atoi(getEnv("GENERATOR_TIMEOUT", "120"))
	sectionPause, _ := strconv.Atoi(getEnv("STREAM_SECTION_PAUSE_MS", "400"))
	designPause, _ := strconv.Atoi(getEnv("STREAM_DESIGN_PAUSE_MS", "200"))
	retrievalPause, _ := strconv.Atoi(getEnv("STREAM_RETRIEVAL_PAUSE_MS", "800"))

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Generator: GeneratorConfig{
			URL:     getEnv("GENERATOR_URL", "http://host.docker.internal:7234/generate_teaching_content"),
			Timeout: time.Duration(generatorTimeout) * time.Second,
		},
		Stream: StreamConfig{
			SectionPause:   time.Duration(sectionPause) * time.Millisecond,
			DesignPause:    time.Duration(designPause) * time.Millisecond,
			RetrievalPause: time.Duration(retrievalPause) * time.Millisecond,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
