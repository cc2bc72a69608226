package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/taxiload/pkg/taxiload"
)

// MockTokenProvider is a test implementation of TokenProvider.
type MockTokenProvider struct {
	Token     string
	ExpiresOn time.Time
	Err       error
	Calls     int
}

func (m *MockTokenProvider) GetToken(ctx context.Context) (string, time.Time, error) {
	m.Calls++
	if m.Err != nil {
		return "", time.Time{}, m.Err
	}
	return m.Token, m.ExpiresOn, nil
}

func (m *MockTokenProvider) String() string {
	return "MockTokenProvider"
}

func TestNewConnector_ByAuthMethod(t *testing.T) {
	base := taxiload.ConnectionConfig{
		Driver:   taxiload.DriverPostgres,
		Host:     "db.example.com",
		Port:     5432,
		Database: "taxi_database",
		Username: "loader",
	}

	standard := base
	connector, err := NewConnector(&standard)
	require.NoError(t, err)
	assert.IsType(t, &StandardConnector{}, connector)

	aws := base
	aws.AuthMethod = taxiload.AuthMethodAWSIAM
	aws.AWSRegion = "us-east-1"
	connector, err = NewConnector(&aws)
	require.NoError(t, err)
	assert.IsType(t, &TokenBasedConnector{}, connector)

	azure := base
	azure.AuthMethod = taxiload.AuthMethodAzureEntraID
	azure.AzureTenantID = "tenant"
	azure.AzureClientID = "client"
	azure.AzureClientSecret = "secret"
	connector, err = NewConnector(&azure)
	require.NoError(t, err)
	assert.IsType(t, &TokenBasedConnector{}, connector)

	google := base
	google.AuthMethod = taxiload.AuthMethodGoogleIAM
	google.GoogleInstance = "project:region:instance"
	connector, err = NewConnector(&google)
	require.NoError(t, err)
	assert.IsType(t, &GoogleCloudSQLConnector{}, connector)
}

func TestNewConnector_MissingCloudParameters(t *testing.T) {
	aws := &taxiload.ConnectionConfig{Host: "h", Port: 5432, Username: "u", AuthMethod: taxiload.AuthMethodAWSIAM}
	_, err := NewConnector(aws)
	assert.ErrorIs(t, err, taxiload.ErrInvalidConfig)
	assert.ErrorContains(t, err, "region")

	google := &taxiload.ConnectionConfig{Username: "u", AuthMethod: taxiload.AuthMethodGoogleIAM}
	_, err = NewConnector(google)
	assert.ErrorIs(t, err, taxiload.ErrInvalidConfig)

	azure := &taxiload.ConnectionConfig{AuthMethod: taxiload.AuthMethodAzureEntraID, AzureClientSecret: "secret"}
	_, err = NewConnector(azure)
	assert.ErrorIs(t, err, taxiload.ErrInvalidConfig)

	_, err = NewConnector(&taxiload.ConnectionConfig{AuthMethod: taxiload.AuthMethod(99)})
	assert.ErrorIs(t, err, taxiload.ErrUnsupportedAuthMethod)
}

func TestTokenBasedConnector_TokenFailure(t *testing.T) {
	provider := &MockTokenProvider{Err: errors.New("expired refresh token")}
	connector := NewTokenBasedConnector(&taxiload.ConnectionConfig{Host: "localhost", Port: 5432}, provider, "Azure")

	conn, err := connector.Connect(context.Background())
	assert.Nil(t, conn)
	assert.ErrorIs(t, err, taxiload.ErrConnection)
	assert.ErrorContains(t, err, "Azure token")
	assert.Equal(t, 1, provider.Calls)
}

func TestStandardConnector_RespectsContextTimeout(t *testing.T) {
	config := &taxiload.ConnectionConfig{
		Driver:   taxiload.DriverPostgres,
		Host:     "nonexistent.invalid",
		Port:     5432,
		Database: "testdb",
		Username: "testuser",
		Password: "testpass",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewStandardConnector(config).Connect(ctx)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.ErrorIs(t, err, taxiload.ErrConnection)
	assert.Less(t, elapsed, 2*time.Second)
}

func TestNewAzureTokenProvider(t *testing.T) {
	p, err := NewAzureTokenProvider("tenant-id", "client-id", "client-secret")
	require.NoError(t, err)
	assert.Equal(t, "AzureServicePrincipal(tenant=tenant-id, client=client-id)", p.String())

	_, err = NewAzureTokenProvider("", "client-id", "client-secret")
	assert.Error(t, err)
}

func TestNewAWSIAMTokenProvider_RequiresAllParams(t *testing.T) {
	_, err := NewAWSIAMTokenProvider("", "us-east-1", "u")
	assert.Error(t, err)
	_, err = NewAWSIAMTokenProvider("h:5432", "", "u")
	assert.Error(t, err)
	_, err = NewAWSIAMTokenProvider("h:5432", "us-east-1", "")
	assert.Error(t, err)

	p, err := NewAWSIAMTokenProvider("h:5432", "us-east-1", "u")
	require.NoError(t, err)
	assert.Equal(t, "AWSIAM(endpoint=h:5432, region=us-east-1, user=u)", p.String())
}
