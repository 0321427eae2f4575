package notify

import (
	"context"
	"fmt"
	"io"
	"log"
	"testing"

	"loginbot/internal/components/telemetry"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestSubjectOf(t *testing.T) {
	require.Equal(t, "loginbot: Batch 1: accounts 1~3/7", subjectOf("Batch 1: accounts 1~3/7\nSuccessful logins: 3\n"))
}

func TestEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping smtp container in short mode")
	}

	// suppress logging
	testcontainers.Logger = log.New(io.Discard, "", 0)

	ctx := context.Background()
	smtpServer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		Started: true,
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "haravich/fake-smtp-server",
			ExposedPorts: []string{"1025/tcp", "1080/tcp"},
			WaitingFor:   wait.ForLog("smtp://0.0.0.0:1025"),
		},
	})
	if err != nil {
		t.Skipf("container runtime unavailable: %v", err)
	}
	defer smtpServer.Terminate(ctx)

	host, err := smtpServer.Host(ctx)
	require.NoError(t, err)
	smtpPort, err := smtpServer.MappedPort(ctx, "1025")
	require.NoError(t, err)
	webPort, err := smtpServer.MappedPort(ctx, "1080")
	require.NoError(t, err)

	tel := &telemetry.Recorder{}
	sink := NewEmail(EmailConfig{
		Server:   host,
		Port:     smtpPort.Int(),
		Address:  "bot@email.com",
		Password: "default",
		To:       []string{"operator@email.com"},
	}, tel)
	sink.Notify(ctx, "All accounts processed!")
	require.Empty(t, tel.Reports("warning"))

	res, err := resty.New().R().Get(fmt.Sprintf("http://%s:%d/messages/1.plain", host, webPort.Int()))
	require.NoError(t, err)
	require.Contains(t, res.String(), "All accounts processed!")
}
