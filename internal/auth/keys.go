package auth

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/inmohub/identity-service/internal/config"
)

// KeyProvider supplies the RSA keypair used for token signing and
// verification. Keys are loaded once at startup and held immutable for the
// process lifetime.
type KeyProvider interface {
	PrivateKey() *rsa.PrivateKey
	PublicKey() *rsa.PublicKey
}

// NewKeyProvider selects a provider from deployment configuration.
func NewKeyProvider(ctx context.Context, cfg config.AuthConfig) (KeyProvider, error) {
	switch cfg.KeySource {
	case config.KeySourceAWS:
		return NewSecretsManagerKeyProvider(ctx, cfg)
	case config.KeySourceLocal:
		return NewLocalKeyProvider(cfg.PrivateKeyPath, cfg.PublicKeyPath)
	default:
		return nil, fmt.Errorf("unknown key source %q", cfg.KeySource)
	}
}

type keyPair struct {
	private *rsa.PrivateKey
	public  *rsa.PublicKey
}

func (k *keyPair) PrivateKey() *rsa.PrivateKey { return k.private }
func (k *keyPair) PublicKey() *rsa.PublicKey   { return k.public }

// NewLocalKeyProvider loads PEM key files from disk. Intended for
// development deployments.
func NewLocalKeyProvider(privatePath, publicPath string) (KeyProvider, error) {
	privatePEM, err := os.ReadFile(privatePath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	publicPEM, err := os.ReadFile(publicPath)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}
	return newKeyPair(privatePEM, publicPEM)
}

// secretsAPI is the slice of the Secrets Manager client the provider needs.
type secretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// NewSecretsManagerKeyProvider fetches PEM key text from AWS Secrets Manager
// by secret id. Intended for production deployments.
func NewSecretsManagerKeyProvider(ctx context.Context, cfg config.AuthConfig) (KeyProvider, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := secretsmanager.NewFromConfig(awsCfg)
	return newSecretsManagerKeyProvider(ctx, client, cfg.PrivateKeySecretID, cfg.PublicKeySecretID)
}

func newSecretsManagerKeyProvider(ctx context.Context, client secretsAPI, privateID, publicID string) (KeyProvider, error) {
	privatePEM, err := fetchSecret(ctx, client, privateID)
	if err != nil {
		return nil, fmt.Errorf("fetch private key secret: %w", err)
	}
	publicPEM, err := fetchSecret(ctx, client, publicID)
	if err != nil {
		return nil, fmt.Errorf("fetch public key secret: %w", err)
	}
	return newKeyPair([]byte(privatePEM), []byte(publicPEM))
}

func fetchSecret(ctx context.Context, client secretsAPI, secretID string) (string, error) {
	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: &secretID})
	if err != nil {
		return "", err
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", secretID)
	}
	return *out.SecretString, nil
}

// newKeyPair applies the same PEM decoding for both sources.
func newKeyPair(privatePEM, publicPEM []byte) (KeyProvider, error) {
	private, err := ParsePrivateKeyPEM(privatePEM)
	if err != nil {
		return nil, err
	}
	public, err := ParsePublicKeyPEM(publicPEM)
	if err != nil {
		return nil, err
	}
	return &keyPair{private: private, public: public}, nil
}

// ParsePrivateKeyPEM decodes a PKCS8 RSA private key from PEM text.
func ParsePrivateKeyPEM(pemBytes []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("no PEM block in private key material")
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is not RSA")
	}
	return key, nil
}

// ParsePublicKeyPEM decodes an X.509 SubjectPublicKeyInfo RSA public key
// from PEM text.
func ParsePublicKeyPEM(pemBytes []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("no PEM block in public key material")
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("public key is not RSA")
	}
	return key, nil
}
