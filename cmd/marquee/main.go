package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mmcdole/marquee/internal/account"
	"github.com/mmcdole/marquee/internal/adapter"
	"github.com/mmcdole/marquee/internal/adapter/tmdb"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/history"
	"github.com/mmcdole/marquee/internal/preferences"
	"github.com/mmcdole/marquee/internal/service"
	"github.com/mmcdole/marquee/internal/store"
	"github.com/mmcdole/marquee/internal/tui"
	"github.com/mmcdole/marquee/internal/tui/styles"
	"github.com/mmcdole/marquee/internal/wishlist"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                          \r"

func main() {
	var (
		showVersion bool
		writeConfig bool
		clearData   bool
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&writeConfig, "write-config", false, "write the effective configuration to the config directory and exit")
	flag.BoolVar(&clearData, "clear-data", false, "delete stored accounts, wishlist and caches and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("marquee %s\n", Version)
		return
	}

	if err := run(writeConfig, clearData); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(writeConfig, clearData bool) error {
	// Load configuration
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if writeConfig {
		if err := adapter.SaveConfig(cfg); err != nil {
			return err
		}
		fmt.Println("✓ Configuration saved!")
		return nil
	}
	if clearData {
		if err := adapter.ClearData(cfg); err != nil {
			return err
		}
		fmt.Println("✓ Local data removed.")
		return nil
	}

	// Setup logger
	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting marquee", "version", Version)

	kv, err := store.Open(cfg.Storage.Path, cfg.Storage.Namespace)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer kv.Close()

	if reset, err := store.EnsureVersion(kv, store.CurrentVersion); err != nil {
		logger.Warn("storage version check failed", "error", err)
	} else if reset {
		logger.Info("cleared caches written by another version")
	}

	accounts := account.NewStore(kv, logger)
	accounts.RestoreSession()

	client := tmdb.NewClient(tmdb.Options{
		BaseURL:     cfg.TMDB.BaseURL,
		APIKey:      cfg.TMDB.APIKey,
		KeyFunc:     accounts.APICredential,
		BearerToken: cfg.TMDB.BearerToken,
		Language:    cfg.TMDB.Language,
		Region:      cfg.TMDB.Region,
		Timeout:     cfg.TMDB.Timeout,
	}, logger)

	catalog := service.NewCatalogService(client, kv, service.CatalogOptions{
		ResponseTTL: cfg.Cache.ResponseTTL,
		GenreTTL:    cfg.Cache.GenreTTL,
	}, logger)

	svc := tui.Services{
		Catalog:  catalog,
		Session:  service.NewSessionService(accounts, catalog),
		Accounts: accounts,
		Wishlist: wishlist.NewStore(kv, logger),
		Prefs:    preferences.NewStore(kv, logger),
		Searches: history.NewSearchHistory(kv, logger),
		Watched:  history.NewWatchHistory(kv, logger),
	}
	opts := tui.Options{
		ImageBaseURL: cfg.TMDB.ImageBaseURL,
		AutoAdvance:  cfg.UI.AutoAdvance,
		DefaultView:  tui.ParseViewMode(cfg.UI.DefaultView),
		Logger:       logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	reader := bufio.NewReader(os.Stdin)
	for {
		if !accounts.Session().Authenticated {
			if err := runAuthFlow(reader, accounts); err != nil {
				return err
			}
		}

		checkCatalogWithSpinner(ctx, catalog)

		logger.Info("starting TUI", "account", accounts.Session().AccountID)
		signedOut, err := tui.Run(ctx, svc, opts)
		if err != nil {
			logger.Error("TUI error", "error", err)
			return fmt.Errorf("TUI error: %w", err)
		}
		if !signedOut {
			break
		}
		logger.Info("signed out, returning to sign-in")
	}

	logger.Info("shutting down")
	return nil
}

// runAuthFlow loops until the user is signed in
func runAuthFlow(reader *bufio.Reader, accounts *account.Store) error {
	fmt.Println()
	fmt.Println("Marquee")
	fmt.Println("━━━━━━━")
	if len(accounts.Accounts()) == 0 {
		fmt.Println("등록된 계정이 없습니다. 먼저 회원가입을 진행하세요.")
	}
	fmt.Println()

	for {
		fmt.Print("[1] 로그인  [2] 회원가입  [q] 종료: ")
		choice, err := readLine(reader)
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			if err := promptSignIn(reader, accounts); err != nil {
				if authErr := asAuthError(err); authErr != nil {
					fmt.Printf("✗ %s\n\n", authErr.Message)
					continue
				}
				return err
			}
			fmt.Println("✓ 로그인되었습니다.")
			return nil
		case "2":
			if err := promptSignUp(reader, accounts); err != nil {
				if authErr := asAuthError(err); authErr != nil {
					fmt.Printf("✗ %s\n\n", authErr.Message)
					continue
				}
				return err
			}
			fmt.Println("✓ 가입이 완료되었습니다. 로그인해 주세요.")
			fmt.Println()
		case "q", "Q":
			return errors.New("sign-in cancelled")
		default:
			fmt.Println("1, 2 또는 q를 입력하세요.")
		}
	}
}

func promptSignIn(reader *bufio.Reader, accounts *account.Store) error {
	fmt.Print("이메일: ")
	id, err := readLine(reader)
	if err != nil {
		return err
	}
	fmt.Print("비밀번호 (TMDB API 키): ")
	credential, err := readSecret(reader)
	if err != nil {
		return err
	}
	fmt.Print("로그인 상태 유지? [y/N]: ")
	remember, err := readLine(reader)
	if err != nil {
		return err
	}
	return accounts.SignIn(id, credential, isYes(remember))
}

func promptSignUp(reader *bufio.Reader, accounts *account.Store) error {
	fmt.Print("이메일: ")
	id, err := readLine(reader)
	if err != nil {
		return err
	}
	fmt.Print("비밀번호 (TMDB API 키): ")
	credential, err := readSecret(reader)
	if err != nil {
		return err
	}
	fmt.Print("비밀번호 확인: ")
	confirm, err := readSecret(reader)
	if err != nil {
		return err
	}
	fmt.Print("이용약관에 동의합니까? [y/N]: ")
	agreed, err := readLine(reader)
	if err != nil {
		return err
	}
	return accounts.SignUp(id, credential, confirm, isYes(agreed))
}

func readLine(reader *bufio.Reader) (string, error) {
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(input), nil
}

// readSecret reads hidden input when stdin is a terminal
func readSecret(reader *bufio.Reader) (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return readLine(reader)
	}
	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // Add newline after hidden input
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimSpace(string(secret)), nil
}

func isYes(s string) bool {
	s = strings.ToLower(s)
	return s == "y" || s == "yes"
}

func asAuthError(err error) *domain.AuthError {
	var authErr *domain.AuthError
	if errors.As(err, &authErr) {
		return authErr
	}
	return nil
}

// checkCatalogWithSpinner warms the genre list and the first listing page
// before the TUI starts so a bad credential shows up as a plain message
// instead of an empty screen.
func checkCatalogWithSpinner(ctx context.Context, catalog *service.CatalogService) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	resultCh := make(chan error, 1)
	go func() {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			_, err := catalog.Genres(gctx)
			return err
		})
		g.Go(func() error {
			_, err := catalog.List(gctx, domain.ListEndpoints()[0], 1)
			return err
		})
		resultCh <- g.Wait()
	}()

	frame := 0
	fmt.Printf("\r%s 카탈로그에 연결하는 중...", styles.SpinnerFrames[frame])

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err := <-resultCh:
			fmt.Print(clearSpinnerLine)
			if err != nil {
				fmt.Println("✗ 카탈로그에 연결하지 못했습니다. API 키와 네트워크를 확인하세요.")
				time.Sleep(time.Second)
			}
			return

		case <-ticker.C:
			frame++
			fmt.Printf("\r%s 카탈로그에 연결하는 중...", styles.SpinnerFrames[frame%len(styles.SpinnerFrames)])

		case <-ctx.Done():
			fmt.Print(clearSpinnerLine)
			fmt.Println("✗ 카탈로그 연결 시간이 초과되었습니다.")
			return
		}
	}
}
