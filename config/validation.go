package config

import (
	"fmt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig fails fast on configuration the server cannot run
// without. Development gets a predictable JWT secret so a bare
// checkout starts; production does not.
func ValidateConfig(cfg *Config) error {
	if cfg.ServerPort == "" {
		return ValidationError{Field: "SERVER_PORT", Message: "must not be empty"}
	}
	if cfg.DBName == "" {
		return ValidationError{Field: "DB_NAME", Message: "must not be empty"}
	}
	if cfg.JWTSecret == "" {
		if IsProduction() {
			return ValidationError{Field: "JWT_SECRET", Message: "required in production"}
		}
		cfg.JWTSecret = "dev-secret"
	}
	if cfg.S3Bucket != "" && cfg.AWSRegion == "" {
		return ValidationError{Field: "AWS_REGION", Message: "required when S3_BUCKET_NAME is set"}
	}
	return nil
}
