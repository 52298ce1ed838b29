package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

const (
	EnvVarsPrefix = "/bizdirectory/prod/"

	defaultAddr      = ":7070"
	defaultDBPath    = "bizdirectory.db"
	defaultRegion    = "us-east-2"
	defaultBodyLimit = "10M"
)

type Config struct {
	Production   bool
	Addr         string
	DBPath       string
	AuthRequired bool

	AWSRegion         string
	CognitoUserPoolID string
	CognitoClientID   string

	S3Bucket    string
	S3PublicURL string

	WebSocketEndpoint string

	CORSOrigins []string
	BodyLimit   string
}

// CognitoEnabled reports whether the identity provider is configured.
func (c *Config) CognitoEnabled() bool {
	return c.CognitoUserPoolID != "" && c.CognitoClientID != ""
}

// Load exports the environment (from SSM in production, .env otherwise)
// and reads the configuration out of it.
func Load(ctx context.Context) (*Config, error) {
	production := os.Getenv("GO_ENV") == "production"
	if production {
		if err := loadProdEnv(ctx); err != nil {
			return nil, err
		}
	} else if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := FromEnv()
	cfg.Production = production
	return cfg, nil
}

// FromEnv builds the configuration from the current process environment.
func FromEnv() *Config {
	return &Config{
		Addr:              getEnv("ADDR", defaultAddr),
		DBPath:            getEnv("DB_PATH", defaultDBPath),
		AuthRequired:      getBool("AUTH_REQUIRED", true),
		AWSRegion:         getEnv("AWS_REGION", defaultRegion),
		CognitoUserPoolID: os.Getenv("COGNITO_USER_POOL_ID"),
		CognitoClientID:   os.Getenv("COGNITO_APP_CLIENT_ID"),
		S3Bucket:          os.Getenv("S3_BUCKET"),
		S3PublicURL:       os.Getenv("S3_PUBLIC_URL"),
		WebSocketEndpoint: os.Getenv("WS_ENDPOINT"),
		CORSOrigins:       getList("CORS_ORIGINS"),
		BodyLimit:         getEnv("BODY_LIMIT", defaultBodyLimit),
	}
}

// AWS loads the shared SDK configuration for the configured region.
func (c *Config) AWS(ctx context.Context) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(c.AWSRegion))
}

// loadProdEnv exports every parameter under EnvVarsPrefix from the AWS SSM
// Parameter Store as an environment variable.
func loadProdEnv(ctx context.Context) error {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(getEnv("AWS_REGION", defaultRegion)))
	if err != nil {
		return fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := ssm.NewFromConfig(cfg)
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(EnvVarsPrefix),
		WithDecryption: aws.Bool(true),
		Recursive:      aws.Bool(true),
	})

	count := 0
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("unable to load prod environment: %w", err)
		}

		for _, param := range out.Parameters {
			key := strings.TrimPrefix(aws.ToString(param.Name), EnvVarsPrefix)
			if err := os.Setenv(key, aws.ToString(param.Value)); err != nil {
				return fmt.Errorf("unable to set environment variable %s: %w", key, err)
			}
			count++
		}
	}
	log.Debugf("loaded %d prod environment variables", count)
	return nil
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	val, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return val
}

func getList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
