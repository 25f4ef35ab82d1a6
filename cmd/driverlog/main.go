// Package main is the entry point for the driverlog CLI.
// Its sole responsibility is wiring dependencies together and dispatching
// subcommands to the service layer. No business logic belongs here.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/bruber/driverlog/internal/config"
	"github.com/bruber/driverlog/internal/domain"
	"github.com/bruber/driverlog/internal/repo"
	"github.com/bruber/driverlog/internal/service"
	"github.com/bruber/driverlog/internal/storage"
)

const usage = `driverlog — daily driving log and earnings reports

Usage: driverlog <command> [flags]

Accounts:
  register    -name -email -phone -password
  login       -email -password
  logout
  whoami
  profile     -name -phone
  reset-request -email
  reset       -email -token -password

Trips:
  add         -date -hours -km -trips -gross
  edit        -id [-date -hours -km -trips -gross]
  delete      -id
  list

Reports:
  report      -period (today|yesterday|last_week|last_month|last_year)
  plan        -goal -value-km -days -price -efficiency

Vehicle:
  vehicle-show
  vehicle-set -model -year -consumption -fuel-price -tax -maintenance

Backup:
  export      [-out file]
  import      -file backup.json

Environment: DATA_PATH (store file), LOG_LEVEL (debug|info|warn|error).
`

// app bundles the wired services for the command functions.
type app struct {
	trips   *service.TripService
	reports *service.ReportService
	vehicle *service.VehicleService
	auth    *service.AuthService
	backup  *service.BackupService
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Store ------------------------------------------------------------
	store, err := storage.OpenBolt(cfg.DataPath)
	if err != nil {
		slog.Error("failed to open store", "path", cfg.DataPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// --- Services ---------------------------------------------------------
	trips := repo.NewTripRepo(store)
	vehicles := repo.NewVehicleRepo(store)
	sessions := repo.NewSessionRepo(store)
	users := repo.NewUserRepo(store)
	tokens := repo.NewResetTokenRepo(store)

	a := &app{
		trips:   service.NewTripService(trips, vehicles),
		reports: service.NewReportService(trips, vehicles, nil),
		vehicle: service.NewVehicleService(vehicles),
		auth:    service.NewAuthService(users, sessions, tokens, nil),
		backup:  service.NewBackupService(trips, vehicles, sessions, nil),
	}

	if err := a.run(context.Background(), os.Args[1], os.Args[2:]); err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNotFound),
			errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrEmailTaken),
			errors.Is(err, domain.ErrInvalidToken):
			fmt.Fprintln(os.Stderr, "error:", err)
		default:
			slog.Error("command failed", "command", os.Args[1], "error", err)
		}
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return a.cmdRegister(ctx, args)
	case "login":
		return a.cmdLogin(ctx, args)
	case "logout":
		return a.auth.Logout(ctx)
	case "whoami":
		return a.cmdWhoami(ctx)
	case "profile":
		return a.cmdProfile(ctx, args)
	case "reset-request":
		return a.cmdResetRequest(ctx, args)
	case "reset":
		return a.cmdReset(ctx, args)
	case "add":
		return a.cmdAdd(ctx, args)
	case "edit":
		return a.cmdEdit(ctx, args)
	case "delete":
		return a.cmdDelete(ctx, args)
	case "list":
		return a.cmdList(ctx)
	case "report":
		return a.cmdReport(ctx, args)
	case "plan":
		return a.cmdPlan(args)
	case "vehicle-show":
		return a.cmdVehicleShow(ctx)
	case "vehicle-set":
		return a.cmdVehicleSet(ctx, args)
	case "export":
		return a.cmdExport(ctx, args)
	case "import":
		return a.cmdImport(ctx, args)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

// requireScreen enforces the session guard for commands that map onto
// protected screens.
func (a *app) requireScreen(ctx context.Context, path string) (domain.Session, error) {
	allowed, err := a.auth.Guard(ctx, path)
	if err != nil {
		return domain.Session{}, err
	}
	if !allowed {
		return domain.Session{}, fmt.Errorf("%w: login required for %s", domain.ErrInvalidCredentials, path)
	}
	session, _, err := a.auth.CheckSession(ctx)
	return session, err
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	phone := fs.String("phone", "", "phone number")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	user, err := a.auth.Register(ctx, *name, *email, *phone, *password)
	if err != nil {
		return err
	}
	fmt.Printf("registered %s (%s)\n", user.Name, user.Email)
	return nil
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	session, err := a.auth.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s\n", session.Email)
	return nil
}

func (a *app) cmdWhoami(ctx context.Context) error {
	session, ok, err := a.auth.CheckSession(ctx)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("not logged in")
		return nil
	}
	fmt.Printf("%s <%s>\n", session.Name, session.Email)
	return nil
}

func (a *app) cmdProfile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	name := fs.String("name", "", "full name")
	phone := fs.String("phone", "", "phone number")
	fs.Parse(args)

	session, err := a.requireScreen(ctx, "/perfil")
	if err != nil {
		return err
	}
	user, err := a.auth.UpdateProfile(ctx, session.UserID, *name, *phone)
	if err != nil {
		return err
	}
	fmt.Printf("profile updated: %s\n", user.Name)
	return nil
}

func (a *app) cmdResetRequest(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset-request", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	fs.Parse(args)

	token, err := a.auth.RequestPasswordReset(ctx, *email)
	if err != nil {
		return err
	}
	// There is no mail delivery; the token is handed to the user directly.
	fmt.Printf("reset token (valid 30 minutes): %s\n", token)
	return nil
}

func (a *app) cmdReset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	token := fs.String("token", "", "reset token")
	password := fs.String("password", "", "new password")
	fs.Parse(args)

	if err := a.auth.ResetPassword(ctx, *email, *token, *password); err != nil {
		return err
	}
	fmt.Println("password updated")
	return nil
}

// tripFlags registers the shared trip-field flags on fs.
func tripFlags(fs *flag.FlagSet) (date *string, hours, km *float64, tripCount *int, gross *float64) {
	date = fs.String("date", "", "trip date (YYYY-MM-DD)")
	hours = fs.Float64("hours", 0, "hours worked")
	km = fs.Float64("km", 0, "distance driven in km")
	tripCount = fs.Int("trips", 0, "number of rides in the session")
	gross = fs.Float64("gross", 0, "gross earnings")
	return
}

func parseTripInput(date string, hours, km float64, tripCount int, gross float64) (service.TripInput, error) {
	d, err := domain.ParseDate(date)
	if err != nil {
		return service.TripInput{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return service.TripInput{
		Date:          d,
		HoursWorked:   hours,
		DistanceKm:    km,
		TripCount:     tripCount,
		GrossEarnings: gross,
	}, nil
}

func (a *app) cmdAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	date, hours, km, tripCount, gross := tripFlags(fs)
	fs.Parse(args)

	session, err := a.requireScreen(ctx, "/adicionar-corrida")
	if err != nil {
		return err
	}
	in, err := parseTripInput(*date, *hours, *km, *tripCount, *gross)
	if err != nil {
		return err
	}
	rec, err := a.trips.Create(ctx, session.UserID, in)
	if err != nil {
		return err
	}
	fmt.Printf("added trip %s on %s (fuel cost %.2f)\n", rec.ID, rec.Date, rec.FuelCost)
	return nil
}

func (a *app) cmdEdit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	id := fs.String("id", "", "trip record id")
	date, hours, km, tripCount, gross := tripFlags(fs)
	fs.Parse(args)

	session, err := a.requireScreen(ctx, "/adicionar-corrida")
	if err != nil {
		return err
	}
	in, err := parseTripInput(*date, *hours, *km, *tripCount, *gross)
	if err != nil {
		return err
	}
	rec, err := a.trips.Update(ctx, session.UserID, *id, in)
	if err != nil {
		return err
	}
	fmt.Printf("updated trip %s\n", rec.ID)
	return nil
}

func (a *app) cmdDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.String("id", "", "trip record id")
	fs.Parse(args)

	session, _, err := a.auth.CheckSession(ctx)
	if err != nil {
		return err
	}
	if err := a.trips.Delete(ctx, session.UserID, *id); err != nil {
		return err
	}
	fmt.Printf("deleted trip %s\n", *id)
	return nil
}

func (a *app) cmdList(ctx context.Context) error {
	session, _, err := a.auth.CheckSession(ctx)
	if err != nil {
		return err
	}
	records, err := a.trips.List(ctx, session.UserID)
	if err != nil {
		return err
	}
	return printJSON(records)
}

func (a *app) cmdReport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	periodName := fs.String("period", string(domain.PeriodToday), "report period")
	fs.Parse(args)

	session, err := a.requireScreen(ctx, "/relatorios")
	if err != nil {
		return err
	}
	period, err := domain.ParsePeriod(*periodName)
	if err != nil {
		return err
	}
	report, err := a.reports.Report(ctx, session.UserID, period)
	if err != nil {
		return err
	}
	return printJSON(report)
}

func (a *app) cmdPlan(args []string) error {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	goal := fs.Float64("goal", 0, "daily earnings goal")
	valueKm := fs.Float64("value-km", 0, "payout per km")
	days := fs.Int("days", 0, "work days in the period")
	price := fs.Float64("price", 0, "fuel price per liter (or kWh)")
	efficiency := fs.Float64("efficiency", 0, "km per liter (or kWh)")
	fs.Parse(args)

	est, err := service.EstimateGoal(service.GoalInput{
		DailyGoal:   *goal,
		ValuePerKm:  *valueKm,
		WorkDays:    *days,
		EnergyPrice: *price,
		Efficiency:  *efficiency,
	})
	if err != nil {
		return err
	}
	return printJSON(est)
}

func (a *app) cmdVehicleShow(ctx context.Context) error {
	if _, err := a.requireScreen(ctx, "/configuracoes"); err != nil {
		return err
	}
	cfg, err := a.vehicle.Get(ctx)
	if err != nil {
		return err
	}
	if cfg == nil {
		fmt.Println("no vehicle configured")
		return nil
	}
	return printJSON(cfg)
}

func (a *app) cmdVehicleSet(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("vehicle-set", flag.ExitOnError)
	model := fs.String("model", "", "vehicle model")
	year := fs.Int("year", 0, "vehicle year")
	consumption := fs.Float64("consumption", 0, "average consumption in km/l")
	fuelPrice := fs.Float64("fuel-price", 0, "fuel price per liter")
	tax := fs.Float64("tax", 0, "annual tax")
	maintenance := fs.Float64("maintenance", 0, "annual maintenance cost")
	fs.Parse(args)

	if _, err := a.requireScreen(ctx, "/configuracoes"); err != nil {
		return err
	}
	cfg := domain.VehicleConfig{
		Model:              *model,
		Year:               *year,
		AverageConsumption: *consumption,
		FuelPrice:          *fuelPrice,
		AnnualTax:          *tax,
		AnnualMaintenance:  *maintenance,
	}
	if err := a.vehicle.Save(ctx, cfg); err != nil {
		return err
	}
	fmt.Printf("vehicle saved: %s %d\n", cfg.Model, cfg.Year)
	return nil
}

func (a *app) cmdExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("out", "", "output file (defaults to the suggested name)")
	fs.Parse(args)

	if _, err := a.requireScreen(ctx, "/backup"); err != nil {
		return err
	}
	result, err := a.backup.Export(ctx)
	if err != nil {
		return err
	}
	path := *out
	if path == "" {
		path = result.Filename
	}
	if err := os.WriteFile(path, result.Data, 0o644); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	fmt.Printf("exported %d records to %s\n", len(result.Backup.Records), path)
	return nil
}

func (a *app) cmdImport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	file := fs.String("file", "", "backup file to import")
	fs.Parse(args)

	if _, err := a.requireScreen(ctx, "/backup"); err != nil {
		return err
	}
	raw, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}
	result, err := a.backup.Import(ctx, raw)
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	fmt.Printf("imported %d records\n", result.Imported)
	return nil
}

func printJSON(v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(raw))
	return nil
}
