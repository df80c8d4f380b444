package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/programme-lv/ojtool/casestore"
	"github.com/programme-lv/ojtool/compare"
	"github.com/programme-lv/ojtool/conf"
	"github.com/programme-lv/ojtool/execeng"
	"github.com/programme-lv/ojtool/httpc"
	"github.com/programme-lv/ojtool/judge"
	"github.com/programme-lv/ojtool/judge/sites"
	"github.com/programme-lv/ojtool/langs"
)

func main() {
	// .env is optional for a local tool
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "login", "l":
		err = cmdLogin(ctx, os.Args[2:])
	case "download", "d":
		err = cmdDownload(ctx, os.Args[2:])
	case "run", "test", "t":
		err = cmdRun(ctx, os.Args[2:])
	case "submit", "s":
		err = cmdSubmit(ctx, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, renderError(err))
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  oj login <site-or-problem-url>
  oj download <problem-url> [-force]
  oj run <problem-url> -- <command> [args...]
  oj submit <problem-url> -file <path> -lang <id> [-wait]

credentials come from OJTOOL_<SITE>_USERNAME / OJTOOL_<SITE>_PASSWORD`)
}

// cookieOrigins are the sites whose session cookies are persisted
// between invocations.
var cookieOrigins = []string{"https://atcoder.jp", "https://codeforces.com"}

func newSession() (*httpc.Session, error) {
	opts := []httpc.SessionOption{httpc.WithLogger(slog.Default())}
	if gap := conf.GetRequestGapFromEnv(); gap > 0 {
		opts = append(opts, httpc.WithMinRequestGap(gap))
	}
	sess, err := httpc.NewSession(opts...)
	if err != nil {
		return nil, err
	}
	if err := sess.LoadCookies(conf.GetCookieFilePathFromEnv()); err != nil {
		slog.Warn("failed to restore session cookies", "error", err)
	}
	return sess, nil
}

func cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		usage()
		return fmt.Errorf("login expects a site name or problem url")
	}
	target := fs.Arg(0)

	reg := sites.DefaultRegistry()
	svc, err := reg.Resolve(target)
	if err != nil {
		// also accept the bare backend name, e.g. "atcoder"
		for _, candidate := range reg.Services() {
			if candidate.ID() == target {
				svc, err = candidate, nil
				break
			}
		}
	}
	if err != nil {
		return err
	}

	auth, ok := svc.(judge.Authenticator)
	if !ok {
		return fmt.Errorf("%s does not support credential login", svc.ID())
	}

	user, pass := conf.GetJudgeCredentialsFromEnv(svc.ID())
	if user == "" || pass == "" {
		userKey, passKey := conf.JudgeCredentialEnvKeys(svc.ID())
		return fmt.Errorf("set %s and %s before logging in", userKey, passKey)
	}

	sess, err := newSession()
	if err != nil {
		return err
	}
	if err := auth.Login(ctx, user, pass, sess); err != nil {
		return err
	}
	if err := sess.SaveCookies(conf.GetCookieFilePathFromEnv(), cookieOrigins); err != nil {
		slog.Warn("failed to persist session cookies", "error", err)
	}
	fmt.Printf("logged in to %s as %s\n", svc.ID(), user)
	return nil
}

func cmdDownload(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("download", flag.ExitOnError)
	force := fs.Bool("force", false, "overwrite stored cases even if the count decreased")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		usage()
		return fmt.Errorf("download expects exactly one problem url")
	}
	url := fs.Arg(0)

	svc, err := sites.DefaultRegistry().Resolve(url)
	if err != nil {
		return err
	}
	sess, err := newSession()
	if err != nil {
		return err
	}

	store := casestore.NewStore(conf.GetCaseStoreRootFromEnv())
	if ok, fetched := store.Saved(url); ok {
		fmt.Printf("refreshing cases fetched %s\n", fetched.Format(time.RFC3339))
	}

	problem, err := svc.FetchProblem(ctx, url, sess)
	if err != nil {
		return err
	}

	if err := store.Save(problem, *force); err != nil {
		return err
	}
	fmt.Printf("%s: saved %d cases to %s\n",
		problem.Title, len(problem.Cases), store.ProblemDir(problem.URL))
	return nil
}

func cmdRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	parallel := fs.Int("j", 0, "max cases run in parallel, 0 = one per cpu")
	timeLimit := fs.Duration("tl", 0, "per-case time limit, 0 = problem's own")
	eps := fs.Float64("eps", 0, "numeric tolerance, switches to tolerant comparison")
	checker := fs.String("checker", "", "external checker command")
	failFast := fs.Bool("fail-fast", false, "stop starting new cases after the first failure")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		usage()
		return fmt.Errorf("run expects a problem url and a command")
	}
	url := fs.Arg(0)
	cmdArgs := fs.Args()[1:]
	if cmdArgs[0] == "--" {
		cmdArgs = cmdArgs[1:]
	}
	if len(cmdArgs) == 0 {
		return fmt.Errorf("run expects a command after the problem url")
	}

	store := casestore.NewStore(conf.GetCaseStoreRootFromEnv())
	problem, err := store.Load(url)
	if err != nil {
		return err
	}

	var cmp compare.Comparer = compare.Exact{}
	if *eps > 0 {
		cmp = compare.Tolerant{Eps: *eps}
	}
	if *checker != "" {
		cmp = compare.Checker{Cmd: *checker}
	}

	summary, err := execeng.Run(ctx, execeng.Invocation{
		Cmd:  cmdArgs[0],
		Args: cmdArgs[1:],
	}, problem, execeng.Config{
		MaxParallel:        *parallel,
		TimeLimit:          *timeLimit,
		StopOnFirstFailure: *failFast,
		Comparer:           cmp,
	})
	if err != nil {
		return err
	}

	printSummary(problem, summary)
	if !summary.Passed() {
		os.Exit(1)
	}
	return nil
}

func cmdSubmit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	file := fs.String("file", "", "path to the solution source file")
	lang := fs.String("lang", "", "site-specific language id")
	wait := fs.Bool("wait", false, "poll until the judge reports a final status")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 || *file == "" || *lang == "" {
		usage()
		return fmt.Errorf("submit expects a problem url, -file and -lang")
	}
	url := fs.Arg(0)

	code, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("failed to read solution file: %w", err)
	}

	svc, err := sites.DefaultRegistry().Resolve(url)
	if err != nil {
		return err
	}
	sess, err := newSession()
	if err != nil {
		return err
	}

	siteLang, err := langs.SiteLanguageID(svc.ID(), *lang)
	if err != nil {
		return err
	}

	handle, err := svc.Submit(ctx, url, code, siteLang, sess)
	if err != nil {
		return err
	}
	fmt.Printf("submitted to %s\n", handle.ServiceID)

	if err := sess.SaveCookies(conf.GetCookieFilePathFromEnv(), cookieOrigins); err != nil {
		slog.Warn("failed to persist session cookies", "error", err)
	}

	if !*wait {
		return nil
	}
	status, err := judge.PollStatus(ctx, svc, *handle, sess, judge.PollOptions{
		MinInterval: 3 * time.Second,
	})
	if err != nil {
		return err
	}
	fmt.Printf("judge status: %s\n", renderStatus(status))
	return nil
}
