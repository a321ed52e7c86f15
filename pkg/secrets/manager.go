package secrets

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
)

// ErrNotFound is returned when a secret has no value in the backend
var ErrNotFound = errors.New("secret not found")

// Manager defines the interface for secrets management
type Manager interface {
	// GetSecret retrieves a secret by key
	GetSecret(ctx context.Context, key string) (string, error)
}

// Config holds secrets manager configuration
type Config struct {
	Backend       string        // "env" or "aws-secrets-manager"
	AWSRegion     string        // AWS region for Secrets Manager
	Endpoint      string        // optional endpoint override (local stacks, tests)
	Prefix        string        // prepended to every key looked up in AWS
	CacheDuration time.Duration // How long to cache secrets
}

// AutoDetectConfig picks the backend from the environment
func AutoDetectConfig() Config {
	cfg := Config{
		Backend:       "env",
		AWSRegion:     os.Getenv("AWS_REGION"),
		Endpoint:      os.Getenv("AWS_SECRETS_MANAGER_ENDPOINT"),
		Prefix:        os.Getenv("AWS_SECRETS_PREFIX"),
		CacheDuration: 5 * time.Minute,
	}
	if enabled, _ := strconv.ParseBool(os.Getenv("AWS_SECRETS_MANAGER_ENABLED")); enabled {
		cfg.Backend = "aws-secrets-manager"
	}
	if cfg.AWSRegion == "" {
		cfg.AWSRegion = "eu-west-2"
	}
	return cfg
}

// NewManager creates a new secrets manager based on configuration
func NewManager(cfg Config) (Manager, error) {
	switch cfg.Backend {
	case "aws-secrets-manager", "aws":
		log.Printf("🔐 Initializing AWS Secrets Manager (region: %s)", cfg.AWSRegion)
		return NewAWSSecretsManager(cfg)
	case "env", "environment", "":
		return EnvironmentManager{}, nil
	default:
		return nil, fmt.Errorf("unsupported secrets backend: %s", cfg.Backend)
	}
}

// EnvironmentManager reads secrets from environment variables
type EnvironmentManager struct{}

// GetSecret retrieves a secret from environment variables
func (EnvironmentManager) GetSecret(ctx context.Context, key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return value, nil
}

// AWSSecretsManager loads secrets from AWS Secrets Manager
type AWSSecretsManager struct {
	client  *secretsmanager.SecretsManager
	cache   map[string]cachedSecret
	cacheMu sync.RWMutex
	config  Config
}

type cachedSecret struct {
	value     string
	expiresAt time.Time
}

// NewAWSSecretsManager creates a new AWS Secrets Manager client
func NewAWSSecretsManager(cfg Config) (*AWSSecretsManager, error) {
	awsCfg := &aws.Config{
		Region:     aws.String(cfg.AWSRegion),
		MaxRetries: aws.Int(1),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		if os.Getenv("AWS_ACCESS_KEY_ID") == "" {
			awsCfg.Credentials = credentials.NewStaticCredentials("local", "local", "")
		}
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &AWSSecretsManager{
		client: secretsmanager.New(sess),
		cache:  make(map[string]cachedSecret),
		config: cfg,
	}, nil
}

// GetSecret retrieves a secret from AWS Secrets Manager
func (m *AWSSecretsManager) GetSecret(ctx context.Context, key string) (string, error) {
	if value, ok := m.getCached(key); ok {
		return value, nil
	}

	result, err := m.client.GetSecretValueWithContext(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(m.config.Prefix + key),
	})
	if err != nil {
		var aerr interface{ Code() string }
		if errors.As(err, &aerr) && aerr.Code() == secretsmanager.ErrCodeResourceNotFoundException {
			return "", fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return "", fmt.Errorf("failed to get secret %s: %w", key, err)
	}
	if result.SecretString == nil || *result.SecretString == "" {
		return "", fmt.Errorf("%w: %s has no string value", ErrNotFound, key)
	}

	m.setCached(key, *result.SecretString)
	return *result.SecretString, nil
}

// RefreshCache drops every cached value
func (m *AWSSecretsManager) RefreshCache() {
	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()
	m.cache = make(map[string]cachedSecret)
}

func (m *AWSSecretsManager) getCached(key string) (string, bool) {
	m.cacheMu.RLock()
	defer m.cacheMu.RUnlock()

	cached, ok := m.cache[key]
	if !ok || time.Now().After(cached.expiresAt) {
		return "", false
	}
	return cached.value, true
}

func (m *AWSSecretsManager) setCached(key, value string) {
	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()

	m.cache[key] = cachedSecret{
		value:     value,
		expiresAt: time.Now().Add(m.config.CacheDuration),
	}
}
