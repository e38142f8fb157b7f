package energy_test

import (
	"bufio"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"energy-report-service/pkg/db"
	"energy-report-service/pkg/energy"
	"energy-report-service/pkg/energy/mocks"
)

var fixedNow = time.Date(2024, time.March, 15, 10, 7, 0, 0, time.UTC)

func GetMockEnergyWithMemorySqliteDialector(t *testing.T, useMockWriter bool) (
	*gomock.Controller,
	*energy.Energy,
	*mocks.MockITelemetryWriter,
) {
	ctrl := gomock.NewController(t)

	mockWriter := mocks.NewMockITelemetryWriter(ctrl)
	dbInstance, err := db.Open(db.UseMemorySqliteDialector())
	require.NoError(t, err)

	energyInstance := &energy.Energy{
		Db:    *dbInstance,
		Clock: func() time.Time { return fixedNow },
	}
	energyInstance.WithDefaultServices()

	if useMockWriter {
		energyInstance.WithServices(energy.ServiceOpts{Writer: mockWriter})
	}

	return ctrl, energyInstance, mockWriter
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		line := scanner.Text()
		var j any
		if err := json.Unmarshal([]byte(line), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}

func findLog(logs []any, match func(map[string]any) bool) bool {
	for _, log := range logs {
		if lobj, ok := log.(map[string]any); ok && match(lobj) {
			return true
		}
	}
	return false
}
