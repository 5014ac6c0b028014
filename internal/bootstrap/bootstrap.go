package bootstrap

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	analysisinadapter "resumedash/internal/modules/analysis/adapter/in"
	analysisoutadapter "resumedash/internal/modules/analysis/adapter/out"
	analysisservice "resumedash/internal/modules/analysis/service"
	analysisusecase "resumedash/internal/modules/analysis/usecase"
	authinadapter "resumedash/internal/modules/auth/adapter/in"
	authoutadapter "resumedash/internal/modules/auth/adapter/out"
	authservice "resumedash/internal/modules/auth/service"
	authusecase "resumedash/internal/modules/auth/usecase"
	"resumedash/internal/platform/clock"
	"resumedash/internal/platform/config"
	"resumedash/internal/platform/logging"
	uiapp "resumedash/internal/ui/app"
)

type App struct {
	AuthCLI     authinadapter.CLIHandler
	AnalysisCLI analysisinadapter.CLIHandler
	AnalysisTUI analysisinadapter.TUIHandler

	closers []io.Closer
}

// New wires both modules against cfg. The caller owns the returned App and
// must Close it to release the result database.
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	if err := os.MkdirAll(cfg.StateDir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	clk := clock.SystemClock{}
	client := &http.Client{Timeout: cfg.HTTPTimeout}

	authUC := authusecase.NewInteractor(authservice.NewAuthService(
		clk,
		authoutadapter.NewGoTrueProvider(cfg.IdentityURL, cfg.IdentityKey, client, logger),
		authoutadapter.NewFileSessionStore(cfg.SessionPath),
		logger,
	))

	resultStore, err := analysisoutadapter.NewSQLiteResultStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new result store: %w", err)
	}
	analysisUC := analysisusecase.NewInteractor(analysisservice.NewWorkflowService(
		clk,
		analysisoutadapter.NewSessionTokenSource(authUC),
		analysisoutadapter.NewHTTPAnalysisAPI(cfg.BackendURL, client, logger),
		resultStore,
		analysisoutadapter.NewLocalFileInspector(logger),
		analysisoutadapter.NewFileResultExporter(logger),
		logger,
	))

	return &App{
		AuthCLI:     authinadapter.NewCLIHandler(authUC),
		AnalysisCLI: analysisinadapter.NewCLIHandler(analysisUC),
		AnalysisTUI: analysisinadapter.NewTUIHandler(analysisUC),
		closers:     []io.Closer{resultStore},
	}, nil
}

func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// RunTUI blocks until the user quits. startDir seeds the upload file picker.
func RunTUI(startDir string, app *App) error {
	model := uiapp.NewModel(app.AuthCLI, app.AnalysisTUI, startDir)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
