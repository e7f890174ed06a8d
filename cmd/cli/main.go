package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"cinepoll/config"
	"cinepoll/internal/api"
	"cinepoll/internal/googleauth"
	"cinepoll/internal/router"
	"cinepoll/internal/services"
	"cinepoll/internal/session"
	"cinepoll/internal/storage"
	"cinepoll/internal/views"
	"cinepoll/pkg/logger"
)

type app struct {
	cfg      *config.Config
	log      *logger.Logger
	sessions *session.Store
	auth     *services.AuthService
	browser  *services.PollBrowser
	admin    *services.PollAdmin
	profile  *services.ProfileService
	reset    *services.PasswordResetFlow
	client   *api.Client
}

func main() {
	cfg := config.LoadConfig()

	mode := logger.DevelopmentMode
	if cfg.AppMode == "production" {
		mode = logger.ProductionMode
	}
	log := logger.New(mode)
	logger.SetGlobalLogger(log)

	kv := newStateStore(cfg)
	sessions := session.NewStore(kv)

	httpClient := &http.Client{Timeout: time.Duration(cfg.RequestTimeout) * time.Second}
	client := api.NewClient(cfg.APIBaseURL, httpClient, sessions, log)

	ctx := context.Background()
	if err := sessions.Initialize(ctx); err != nil {
		log.Errorf("failed to restore session: %v", err)
	}

	a := &app{
		cfg:      cfg,
		log:      log,
		sessions: sessions,
		auth:     services.NewAuthService(client, sessions, log),
		browser:  services.NewPollBrowser(client),
		admin:    services.NewPollAdmin(client, sessions),
		profile:  services.NewProfileService(client, sessions),
		reset:    services.NewPasswordResetFlow(client),
		client:   client,
	}

	if err := a.run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newStateStore(cfg *config.Config) storage.KV {
	switch cfg.StateBackend {
	case "redis":
		client := storage.NewRedisClient(storage.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return storage.NewRedisStore(client, "cinepoll")
	case "memory":
		return storage.NewMemStore()
	default:
		return storage.NewFileStore(cfg.StateFile)
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		usage()
		return nil
	}
	command, rest := args[0], args[1:]

	path, handler := a.dispatch(command, rest)
	if handler == nil {
		usage()
		return fmt.Errorf("unknown command %q", command)
	}

	resolution := router.Resolve(path, a.sessions)
	switch {
	case resolution.View == router.ViewLoading:
		fmt.Println("Loading...")
		return nil
	case resolution.RedirectTo == "/login":
		return fmt.Errorf("please log in first (cinepoll login <email>)")
	case resolution.RedirectTo == "/":
		// Bounced home: either an authenticated user on a sign-in command
		// or a non-admin on an admin command.
		switch command {
		case "login", "register", "google-login", "forgot-password":
			return fmt.Errorf("already signed in; log out first")
		default:
			return fmt.Errorf("not available for this account")
		}
	}

	if err := handler(ctx, resolution.Params); err != nil {
		if api.IsAuthFailure(err) {
			return fmt.Errorf("%w (try `cinepoll login <email>`)", err)
		}
		return err
	}
	return nil
}

type commandFunc func(ctx context.Context, params map[string]string) error

func (a *app) dispatch(command string, args []string) (string, commandFunc) {
	switch command {
	case "login":
		return "/login", func(ctx context.Context, _ map[string]string) error {
			return a.cmdLogin(ctx, args)
		}
	case "register":
		return "/register", func(ctx context.Context, _ map[string]string) error {
			return a.cmdRegister(ctx, args)
		}
	case "google-login":
		return "/login", func(ctx context.Context, _ map[string]string) error {
			return a.cmdGoogleLogin(ctx)
		}
	case "forgot-password":
		return "/forgot-password", func(ctx context.Context, _ map[string]string) error {
			return a.cmdForgotPassword(ctx, args)
		}
	case "logout":
		return "/", func(ctx context.Context, _ map[string]string) error {
			return a.cmdLogout(ctx)
		}
	case "home", "polls":
		return "/", func(ctx context.Context, _ map[string]string) error {
			return a.cmdPolls(ctx, args)
		}
	case "poll":
		return "/poll/" + firstArg(args), func(ctx context.Context, params map[string]string) error {
			return a.cmdPoll(ctx, params["id"])
		}
	case "vote":
		return "/poll/" + firstArg(args), func(ctx context.Context, params map[string]string) error {
			return a.cmdVote(ctx, params["id"], secondArg(args))
		}
	case "results":
		return "/results/" + firstArg(args), func(ctx context.Context, params map[string]string) error {
			return a.cmdResults(ctx, params["id"])
		}
	case "profile":
		return "/profile", func(ctx context.Context, _ map[string]string) error {
			return a.cmdProfile(ctx, args)
		}
	case "create-poll":
		return "/create-poll", func(ctx context.Context, _ map[string]string) error {
			return a.cmdCreatePoll(ctx, args)
		}
	}
	return "", nil
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: cinepoll login <email> [password]")
	}
	email := args[0]
	password := secondArg(args)
	if password == "" {
		var err error
		password, err = promptSecret("Password: ")
		if err != nil {
			return err
		}
	}
	if err := a.auth.Login(ctx, email, password); err != nil {
		return err
	}
	viewer, _ := a.sessions.Current()
	fmt.Printf("Welcome back, %s\n", viewer.DisplayName())
	return nil
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	email := fs.String("email", "", "email address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	password, err := promptSecret("Password: ")
	if err != nil {
		return err
	}
	confirm, err := promptSecret("Confirm password: ")
	if err != nil {
		return err
	}

	err = a.auth.Register(ctx, services.RegisterInput{
		FirstName:       *first,
		LastName:        *last,
		Email:           *email,
		Password:        password,
		ConfirmPassword: confirm,
	})
	if fieldErrs, ok := err.(services.FieldErrors); ok {
		for field, message := range fieldErrs {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", field, message)
		}
		return fmt.Errorf("registration blocked by validation")
	}
	if err != nil {
		return err
	}
	fmt.Println("Account created and signed in.")
	return nil
}

func (a *app) cmdGoogleLogin(ctx context.Context) error {
	receiver := googleauth.NewReceiver(a.cfg.GoogleClientID, a.cfg.LoopbackPort, a.log)
	profile, err := receiver.Listen(ctx)
	if err != nil {
		return err
	}
	if err := a.auth.GoogleLogin(ctx, profile.IDToken); err != nil {
		return err
	}
	fmt.Printf("Signed in as %s\n", profile.Email)
	return nil
}

func (a *app) cmdForgotPassword(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: cinepoll forgot-password <email>")
	}
	if err := a.reset.Start(ctx, args[0]); err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("OTP sent to %s, valid for %s\n", args[0], views.FormatCountdown(a.reset.SecondsRemaining()))
	fmt.Print("Enter the 6-digit code: ")
	otp, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	if err := a.reset.Verify(ctx, strings.TrimSpace(otp)); err != nil {
		return err
	}

	password, err := promptSecret("New password: ")
	if err != nil {
		return err
	}
	if err := a.reset.Reset(ctx, password); err != nil {
		return err
	}
	fmt.Println("Password reset. You can log in now.")
	return nil
}

func (a *app) cmdLogout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

func (a *app) cmdPolls(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("polls", flag.ContinueOnError)
	search := fs.String("search", "", "filter by question text")
	filterFlag := fs.String("filter", "all", "all, active or closed")
	sortFlag := fs.String("sort", "popular", "popular or newest")
	if err := fs.Parse(args); err != nil {
		return err
	}

	polls, stats, err := a.browser.Browse(ctx, services.BrowseQuery{
		Search: *search,
		Filter: services.Filter(*filterFlag),
		SortBy: services.SortBy(*sortFlag),
	})
	if err != nil {
		return err
	}
	views.RenderPollList(os.Stdout, polls, stats, time.Now())
	return nil
}

func (a *app) cmdPoll(ctx context.Context, id string) error {
	controller := services.NewPollController(a.client, a.sessions, a.log)
	if err := controller.Load(ctx, id); err != nil {
		return err
	}
	views.RenderDetail(os.Stdout, controller.Poll(), controller.Selection(), controller.HasVoted(), time.Now())
	if controller.IsExpired() {
		fmt.Printf("\nPoll closed - see `cinepoll results %s`\n", id)
	}
	return nil
}

func (a *app) cmdVote(ctx context.Context, id, optionKey string) error {
	if optionKey == "" {
		return fmt.Errorf("usage: cinepoll vote <poll-id> <option>")
	}

	controller := services.NewPollController(a.client, a.sessions, a.log)
	if err := controller.Load(ctx, id); err != nil {
		return err
	}
	if controller.IsExpired() {
		fmt.Printf("Poll closed - see `cinepoll results %s`\n", id)
		return nil
	}
	if err := controller.SelectOption(optionKey); err != nil {
		return err
	}
	if err := controller.SubmitVote(ctx); err != nil {
		return err
	}

	fmt.Println("Vote recorded.")
	views.RenderDetail(os.Stdout, controller.Poll(), controller.Selection(), controller.HasVoted(), time.Now())
	return nil
}

func (a *app) cmdResults(ctx context.Context, id string) error {
	record, err := a.client.GetResults(ctx, id)
	if err != nil {
		return err
	}
	views.RenderResults(os.Stdout, record)
	return nil
}

func (a *app) cmdProfile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	name := fs.String("name", "", "display name")
	phone := fs.String("phone", "", "phone number")
	cinemas := fs.String("cinemas", "", "comma-separated preferred cinemas")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *name == "" && *phone == "" && *cinemas == "" {
		viewer, _ := a.sessions.Current()
		fmt.Printf("%s <%s>\n", viewer.DisplayName(), viewer.Email)
		if expiry, ok := a.sessions.TokenExpiry(); ok {
			fmt.Printf("session expires %s\n", expiry.Format(time.RFC1123))
		}
		return nil
	}

	input := api.ProfileInput{Name: *name, Phone: *phone}
	if *cinemas != "" {
		input.Cinemas = strings.Split(*cinemas, ",")
	}
	updated, err := a.profile.Update(ctx, input)
	if err != nil {
		return err
	}
	fmt.Printf("Profile updated: %s\n", updated.DisplayName())
	return nil
}

func (a *app) cmdCreatePoll(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create-poll", flag.ContinueOnError)
	question := fs.String("question", "", "poll question")
	options := fs.String("options", "", "comma-separated answer choices")
	category := fs.String("category", "", "poll category")
	days := fs.String("days", "", "duration in days")
	imageURL := fs.String("image", "", "image URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	form := services.CreatePollForm{
		Question: *question,
		Options:  strings.Split(*options, ","),
		Category: *category,
		ImageURL: *imageURL,
	}
	if *days != "" {
		parsed, err := strconv.Atoi(*days)
		if err != nil {
			return fmt.Errorf("invalid --days value %q", *days)
		}
		form.DurationDays = parsed
	}

	created, err := a.admin.Create(ctx, form)
	if err != nil {
		return err
	}
	fmt.Printf("Poll created with id %s\n", created.ID)
	return nil
}

func promptSecret(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func firstArg(args []string) string {
	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			return arg
		}
	}
	return ""
}

func secondArg(args []string) string {
	seen := 0
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		seen++
		if seen == 2 {
			return arg
		}
	}
	return ""
}

func usage() {
	fmt.Println(`cinepoll - movie poll voting client

Usage:
  cinepoll login <email> [password]
  cinepoll register -first <name> -last <name> -email <addr>
  cinepoll google-login
  cinepoll forgot-password <email>
  cinepoll logout
  cinepoll polls [-search q] [-filter all|active|closed] [-sort popular|newest]
  cinepoll poll <id>
  cinepoll vote <id> <option>
  cinepoll results <id>
  cinepoll profile [-name n] [-phone p] [-cinemas a,b]
  cinepoll create-poll -question q -options a,b,c [-days n]`)
}
