package factory

import (
	"time"

	"github.com/crossfire-game/crossfire-go/internal/content"
	"github.com/crossfire-game/crossfire-go/internal/dependencies/mocks"
	"github.com/crossfire-game/crossfire-go/internal/storage/memory"
	"github.com/crossfire-game/crossfire-go/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked
// dependencies and the embedded content loaded
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	logger := testutil.NopLogger()

	app := newWithDependencies(store, mockClock, mockRandom, logger)
	if err := content.LoadDefaults(app.PuzzleService, app.QuestionService); err != nil {
		panic(err)
	}

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
