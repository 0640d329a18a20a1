package config

import "os"

type Config struct {
	Port         string
	MongoURI     string
	MongoDB      string
	JWTSecret    string
	LogLevel     string
	StorageURL   string
	StorageToken string
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8800"),
		MongoURI:     getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:      getEnv("MONGO_DB", "taskmanager"),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		StorageURL:   getEnv("STORAGE_URL", ""),
		StorageToken: getEnv("STORAGE_TOKEN", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
