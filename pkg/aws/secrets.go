package aws

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

type secretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// DBCredentials is the database login held in Secrets Manager. Empty fields
// were absent from the secret.
type DBCredentials struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     string
}

// Each field accepts our POSTGRES_* keys or the names RDS uses for the
// secrets it rotates itself.
var credentialKeys = map[string][]string{
	"user":     {"POSTGRES_USER", "username"},
	"password": {"POSTGRES_PASSWORD", "password"},
	"name":     {"POSTGRES_DB", "dbname"},
	"host":     {"POSTGRES_HOST", "host"},
	"port":     {"POSTGRES_PORT", "port"},
}

// CredentialsSource reads database credentials from one Secrets Manager entry.
// Every call fetches AWSCURRENT so a rotated password is picked up on reconnect.
type CredentialsSource struct {
	client   secretsAPI
	secretID string
}

func NewCredentialsSource(cfg sdkaws.Config, secretID string) *CredentialsSource {
	return &CredentialsSource{
		client:   secretsmanager.NewFromConfig(cfg),
		secretID: secretID,
	}
}

func (s *CredentialsSource) DBCredentials(ctx context.Context) (*DBCredentials, error) {
	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     sdkaws.String(s.secretID),
		VersionStage: sdkaws.String("AWSCURRENT"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get secret %s: %w", s.secretID, err)
	}
	if out.SecretString == nil {
		return nil, fmt.Errorf("secret %s has no string value", s.secretID)
	}
	return decodeCredentials(*out.SecretString)
}

func decodeCredentials(raw string) (*DBCredentials, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var doc map[string]interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode db credentials: %w", err)
	}

	pick := func(field string) string {
		for _, key := range credentialKeys[field] {
			switch v := doc[key].(type) {
			case string:
				if v != "" {
					return v
				}
			case json.Number:
				return v.String()
			}
		}
		return ""
	}
	return &DBCredentials{
		User:     pick("user"),
		Password: pick("password"),
		Name:     pick("name"),
		Host:     pick("host"),
		Port:     pick("port"),
	}, nil
}
