package rest

import (
	"context"
	"io"
	"log/slog"

	"github.com/heartmarshall/wordbuddy/internal/domain"
	"github.com/heartmarshall/wordbuddy/internal/service/settings"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type resolverMock struct {
	ResolveFunc func(ctx context.Context, word string) (domain.WordRecord, error)
	LookupFunc  func(ctx context.Context, word string) (domain.WordRecord, error)
	RefreshFunc func(ctx context.Context, rec domain.WordRecord) (domain.WordRecord, error)
}

func (m *resolverMock) Resolve(ctx context.Context, word string) (domain.WordRecord, error) {
	return m.ResolveFunc(ctx, word)
}

func (m *resolverMock) Lookup(ctx context.Context, word string) (domain.WordRecord, error) {
	return m.LookupFunc(ctx, word)
}

func (m *resolverMock) Refresh(ctx context.Context, rec domain.WordRecord) (domain.WordRecord, error) {
	return m.RefreshFunc(ctx, rec)
}

type settingsMock struct {
	SnapshotFunc     func(ctx context.Context) settings.Snapshot
	ApplyFunc        func(ctx context.Context, u settings.Update) error
	ClearAPIKeysFunc func(ctx context.Context)
}

func (m *settingsMock) Snapshot(ctx context.Context) settings.Snapshot {
	return m.SnapshotFunc(ctx)
}

func (m *settingsMock) Apply(ctx context.Context, u settings.Update) error {
	return m.ApplyFunc(ctx, u)
}

func (m *settingsMock) ClearAPIKeys(ctx context.Context) {
	m.ClearAPIKeysFunc(ctx)
}

type cacheMock struct {
	cleared int
}

func (m *cacheMock) Clear(_ context.Context) {
	m.cleared++
}
