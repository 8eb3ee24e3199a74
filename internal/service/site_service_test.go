package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/sitegen/internal/generation"
	"github.com/phrazzld/sitegen/internal/mocks"
	"github.com/phrazzld/sitegen/internal/platform/logger"
	"github.com/phrazzld/sitegen/internal/site"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	mu         sync.Mutex
	sites      []*generation.Site
	clearFlags []bool
	err        error
}

func (w *recordingWriter) Write(s *generation.Site, clearFirst bool) (*site.Manifest, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return nil, w.err
	}
	w.sites = append(w.sites, s)
	w.clearFlags = append(w.clearFlags, clearFirst)
	return &site.Manifest{
		Dir: "out",
		Files: []site.File{
			{Name: site.IndexFile, Size: int64(len(s.HTML))},
			{Name: site.StylesFile, Size: int64(len(s.CSS))},
			{Name: site.ScriptFile, Size: int64(len(s.JS))},
		},
	}, nil
}

func newTestService(t *testing.T, gen generation.Generator, w SiteWriter, opts Options) SiteService {
	t.Helper()
	l, _ := logger.NewTestLogger()
	svc, err := NewSiteService(gen, w, opts, l)
	require.NoError(t, err)
	return svc
}

func TestNewSiteServiceValidation(t *testing.T) {
	l, _ := logger.NewTestLogger()
	gen := mocks.NewMockGeneratorWithSite(&generation.Site{HTML: "<p>x</p>"})
	w := &recordingWriter{}

	_, err := NewSiteService(nil, w, Options{}, l)
	assert.Error(t, err)

	_, err = NewSiteService(gen, nil, Options{}, l)
	assert.Error(t, err)

	_, err = NewSiteService(gen, w, Options{}, nil)
	assert.Error(t, err)
}

func TestGenerate(t *testing.T) {
	var gotPrompt string
	gen := generation.GeneratorFunc(func(_ context.Context, prompt string) (*generation.Site, error) {
		gotPrompt = prompt
		return &generation.Site{HTML: "  <h1>Shop</h1>  ", CSS: "", JS: "init();"}, nil
	})
	w := &recordingWriter{}
	svc := newTestService(t, gen, w, Options{ClearBeforeWrite: true})

	result, err := svc.Generate(context.Background(), "  an online shop  ")

	require.NoError(t, err)
	assert.Equal(t, "an online shop", gotPrompt)
	assert.Equal(t, "an online shop", result.Prompt)
	assert.NotEqual(t, uuid.Nil, result.ID)
	assert.Equal(t, "out", result.Dir)
	assert.Len(t, result.Files, 3)
	assert.False(t, result.CreatedAt.IsZero())
	assert.GreaterOrEqual(t, result.DurationMS, int64(0))

	require.Len(t, w.sites, 1)
	assert.Equal(t, "<h1>Shop</h1>", w.sites[0].HTML)
	assert.Equal(t, generation.EmptyCSS, w.sites[0].CSS)
	assert.Equal(t, []bool{true}, w.clearFlags)

	latest, err := svc.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, result.ID, latest.ID)
}

func TestGeneratePromptValidation(t *testing.T) {
	tests := []struct {
		name    string
		prompt  string
		wantErr error
	}{
		{name: "empty", prompt: "", wantErr: ErrEmptyPrompt},
		{name: "whitespace", prompt: " \n\t ", wantErr: ErrEmptyPrompt},
		{name: "too long", prompt: strings.Repeat("a", 11), wantErr: ErrPromptTooLong},
		{name: "at limit", prompt: strings.Repeat("é", 10)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := &recordingWriter{}
			gen := mocks.NewMockGeneratorWithSite(&generation.Site{HTML: "<p>x</p>"})
			svc := newTestService(t, gen, w, Options{MaxPromptLength: 10})

			_, err := svc.Generate(context.Background(), tc.prompt)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Empty(t, w.sites)
				assert.Equal(t, 0, gen.Calls())
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestGenerateGeneratorErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"unavailable", generation.ErrGeneratorUnavailable},
		{"blocked", generation.ErrContentBlocked},
		{"transient", generation.ErrTransientFailure},
		{"invalid response", generation.ErrInvalidResponse},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gen := mocks.NewMockGeneratorWithError(tc.err)
			w := &recordingWriter{}
			svc := newTestService(t, gen, w, Options{})

			_, err := svc.Generate(context.Background(), "blog")

			assert.ErrorIs(t, err, tc.err)
			var svcErr *SiteServiceError
			require.ErrorAs(t, err, &svcErr)
			assert.Equal(t, "generate", svcErr.Operation)
			assert.Empty(t, w.sites)

			_, err = svc.Latest(context.Background())
			assert.ErrorIs(t, err, ErrNoGeneration)
		})
	}
}

func TestGenerateEmptySite(t *testing.T) {
	svc := newTestService(t, mocks.NewMockGeneratorWithSite(&generation.Site{HTML: "  "}), &recordingWriter{}, Options{})

	_, err := svc.Generate(context.Background(), "blog")

	assert.ErrorIs(t, err, generation.ErrInvalidResponse)
}

func TestGenerateWriteError(t *testing.T) {
	writeErr := errors.New("disk full")
	svc := newTestService(t, mocks.NewMockGeneratorWithSite(&generation.Site{HTML: "<p>x</p>"}),
		&recordingWriter{err: writeErr}, Options{})

	_, err := svc.Generate(context.Background(), "blog")

	assert.ErrorIs(t, err, writeErr)
	var svcErr *SiteServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "write_site", svcErr.Operation)
}

func TestGenerateRejectsWhenBusy(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	gen := generation.GeneratorFunc(func(context.Context, string) (*generation.Site, error) {
		close(entered)
		<-release
		return &generation.Site{HTML: "<p>slow</p>"}, nil
	})
	svc := newTestService(t, gen, &recordingWriter{}, Options{MaxConcurrent: 1})

	done := make(chan error, 1)
	go func() {
		_, err := svc.Generate(context.Background(), "first")
		done <- err
	}()

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first generation did not start")
	}

	_, err := svc.Generate(context.Background(), "second")
	assert.ErrorIs(t, err, ErrGenerationInProgress)

	close(release)
	require.NoError(t, <-done)
}

func TestGenerateWithRealWriter(t *testing.T) {
	fs := afero.NewMemMapFs()
	l, _ := logger.NewTestLogger()
	w, err := site.NewWriter(fs, "out", l)
	require.NoError(t, err)

	gen := mocks.NewMockGeneratorWithSite(&generation.Site{HTML: "<main>hi</main>", CSS: "main{}"})
	svc := newTestService(t, gen, w, Options{})

	result, err := svc.Generate(context.Background(), "greeting page")
	require.NoError(t, err)

	assert.True(t, w.HasIndex())
	js, err := afero.ReadFile(fs, "out/app.js")
	require.NoError(t, err)
	assert.Equal(t, generation.EmptyJS, string(js))
	assert.Equal(t, site.IndexFile, result.Files[0].Name)
}

func TestLatestReturnsCopy(t *testing.T) {
	svc := newTestService(t, mocks.NewMockGeneratorWithSite(&generation.Site{HTML: "<p>x</p>"}), &recordingWriter{}, Options{})

	_, err := svc.Latest(context.Background())
	assert.ErrorIs(t, err, ErrNoGeneration)

	_, err = svc.Generate(context.Background(), "blog")
	require.NoError(t, err)

	first, err := svc.Latest(context.Background())
	require.NoError(t, err)
	first.Files[0].Name = "mutated"

	second, err := svc.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, site.IndexFile, second.Files[0].Name)
}

func TestNewSiteServiceError(t *testing.T) {
	assert.NoError(t, NewSiteServiceError("op", "msg", nil))
	assert.Same(t, ErrGenerationInProgress,
		NewSiteServiceError("op", "msg", ErrGenerationInProgress))

	err := NewSiteServiceError("write_site", "failed", errors.New("boom"))
	assert.EqualError(t, err, "site service write_site failed: failed: boom")
}
