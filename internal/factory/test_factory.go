package factory

import (
	"log/slog"
	"time"

	"github.com/mcoot/cardwar/internal/dependencies/mocks"
	"github.com/mcoot/cardwar/internal/services/auth"
	"github.com/mcoot/cardwar/internal/storage/memory"
	"github.com/mcoot/cardwar/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	Memory     *memory.Storage
}

// NewTestApp creates an App on in-memory storage with a fixed clock and
// scripted randomness. logger may be nil.
func NewTestApp(logger *slog.Logger) *TestApp {
	if logger == nil {
		logger = testutil.NopLogger()
	}
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, auth.DefaultConfig(), logger)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Memory:     store,
	}
}
