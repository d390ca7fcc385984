package placeholder

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JakeFAU/employee-discovery/internal/progress"
	"github.com/JakeFAU/employee-discovery/internal/search"
)

// Files writes generated scripts into the work directory.
type Files interface {
	Put(ctx context.Context, name string, data []byte, perm fs.FileMode) (string, error)
}

// IDGenerator produces event identifiers.
type IDGenerator interface {
	NewRawID() (uuid.UUID, error)
}

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// Writer renders and stores stubs.
type Writer struct {
	files      Files
	configFile string
	ids        IDGenerator
	clock      Clock
	emitter    progress.Emitter
	logger     *zap.Logger
}

// NewWriter creates a Writer. configFile is the record filename the stubs load.
func NewWriter(files Files, configFile string, ids IDGenerator, clock Clock, emitter progress.Emitter, logger *zap.Logger) *Writer {
	if emitter == nil {
		emitter = progress.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{
		files:      files,
		configFile: configFile,
		ids:        ids,
		clock:      clock,
		emitter:    emitter,
		logger:     logger,
	}
}

// Write renders the stub for m into script (relative to the work directory)
// and returns the absolute path. Callers check for an existing file first;
// Write always overwrites.
func (w *Writer) Write(ctx context.Context, m search.Method, script string) (string, error) {
	lang := LanguageFor(script)
	body, err := lang.Render(ForMethod(m, w.configFile))
	if err != nil {
		return "", err
	}
	path, err := w.files.Put(ctx, script, body, lang.Perm)
	if err != nil {
		return "", fmt.Errorf("write placeholder: %w", err)
	}
	w.logger.Info("placeholder created",
		zap.String("method", m.Token()),
		zap.String("path", path),
		zap.String("language", lang.Name))

	if id, idErr := w.ids.NewRawID(); idErr == nil {
		w.emitter.Emit(progress.Event{
			LaunchID: progress.UUIDToBytes(id),
			TS:       w.clock.Now(),
			Stage:    progress.StagePlaceholder,
			Token:    m.Token(),
			Script:   path,
		})
	}
	return path, nil
}
