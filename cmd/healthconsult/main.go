package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/healthconsult/healthconsult/internal/config"
	"github.com/healthconsult/healthconsult/internal/domain/consult"
	"github.com/healthconsult/healthconsult/internal/domain/contacts"
	"github.com/healthconsult/healthconsult/internal/domain/medication"
	"github.com/healthconsult/healthconsult/internal/domain/vitals"
	"github.com/healthconsult/healthconsult/internal/platform/dialer"
	"github.com/healthconsult/healthconsult/internal/platform/store"
	"github.com/healthconsult/healthconsult/internal/records"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "healthconsult",
		Short: "Personal health record and consultation client",
	}

	rootCmd.AddCommand(medicationsCmd())
	rootCmd.AddCommand(vitalsCmd())
	rootCmd.AddCommand(contactsCmd())
	rootCmd.AddCommand(symptomsCmd())
	rootCmd.AddCommand(consultCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles the wiring every subcommand needs: config, logger and the
// persistence substrate picked by STORE_BACKEND.
type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	sub    store.Substrate
	policy records.RefreshPolicy
	close  func()
}

func newApp(ctx context.Context) (*app, error) {
	// Logger
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	a := &app{
		cfg:    cfg,
		log:    logger,
		policy: records.ParseRefreshPolicy(cfg.RefreshPolicy),
		close:  func() {},
	}

	switch cfg.StoreBackend {
	case "memory":
		a.sub = store.NewMemory()
	case "file":
		sub, err := store.NewFile(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open data dir: %w", err)
		}
		a.sub = sub
	case "redis":
		sub, err := store.NewRedisFromURL(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.sub = sub
		a.close = func() { _ = sub.Close() }
	case "postgres":
		sub, err := store.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.sub = sub
		a.close = sub.Close
	}

	logger.Debug().Str("backend", cfg.StoreBackend).Msg("substrate ready")
	return a, nil
}

func today() string {
	return time.Now().Format("2006-01-02")
}

func medicationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "medications",
		Short: "Manage the medication list",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show all medications, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			svc := medication.NewService(a.sub, a.policy, a.log)
			meds, err := svc.Activate(ctx)
			if err != nil {
				return err
			}
			if len(meds) == 0 {
				fmt.Println("No medications recorded.")
				return nil
			}
			for _, m := range svc.History() {
				fmt.Printf("%s  %-20s %-12s %-18s %s to %s\n",
					m.ID, m.Name, m.Dosage, m.Frequency, m.StartDate, m.EndDate)
			}
			return nil
		},
	})

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Record a medication course",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			svc := medication.NewService(a.sub, a.policy, a.log)
			if _, err := svc.Activate(ctx); err != nil {
				return err
			}

			draft := svc.BeginDraft(today())
			draft.Name, _ = cmd.Flags().GetString("name")
			draft.Dosage, _ = cmd.Flags().GetString("dosage")
			draft.Frequency, _ = cmd.Flags().GetString("frequency")
			if v, _ := cmd.Flags().GetString("start"); v != "" {
				draft.StartDate = v
			}
			if v, _ := cmd.Flags().GetString("end"); v != "" {
				draft.EndDate = v
			}
			draft.Notes, _ = cmd.Flags().GetString("notes")
			if t, _ := cmd.Flags().GetString("reminder"); t != "" {
				days, _ := cmd.Flags().GetStringSlice("reminder-days")
				draft.Reminders = []medication.Reminder{{Time: t, Days: days}}
			}

			rec, err := svc.Submit(ctx, draft)
			if err != nil {
				svc.Cancel()
				return err
			}
			fmt.Printf("Added %s (%s)\n", rec.Name, rec.ID)
			return nil
		},
	}
	addCmd.Flags().String("name", "", "medication name")
	addCmd.Flags().String("dosage", "", "dosage, e.g. 500mg")
	addCmd.Flags().String("frequency", "", "how often it is taken")
	addCmd.Flags().String("start", "", "start date (YYYY-MM-DD, default today)")
	addCmd.Flags().String("end", "", "end date (YYYY-MM-DD, default today)")
	addCmd.Flags().String("notes", "", "free-form notes")
	addCmd.Flags().String("reminder", "", "reminder time, e.g. 08:00")
	addCmd.Flags().StringSlice("reminder-days", nil, "reminder days, e.g. Mon,Wed,Fri")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a medication by identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			svc := medication.NewService(a.sub, a.policy, a.log)
			if _, err := svc.Activate(ctx); err != nil {
				return err
			}
			if err := svc.Remove(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println("Removed.")
			return nil
		},
	})

	return cmd
}

func vitalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vitals",
		Short: "Record and review vital signs",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "overview",
		Short: "Latest reading per vital-sign type",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			svc := vitals.NewService(a.sub, a.policy, a.log)
			if _, err := svc.Activate(ctx); err != nil {
				return err
			}
			for _, o := range svc.LatestPerType() {
				if o.Latest == nil {
					fmt.Printf("%-20s (normal %s)  no reading\n", o.Type, o.NormalRange)
					continue
				}
				fmt.Printf("%-20s (normal %s)  %g %s on %s\n",
					o.Type, o.NormalRange, o.Latest.Value, o.Latest.Unit, o.Latest.Date)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show all readings, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			svc := vitals.NewService(a.sub, a.policy, a.log)
			if _, err := svc.Activate(ctx); err != nil {
				return err
			}
			for _, v := range svc.History() {
				fmt.Printf("%s  %s  %-20s %g %s\n", v.ID, v.Date, v.Type, v.Value, v.Unit)
			}
			return nil
		},
	})

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Record a reading",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			svc := vitals.NewService(a.sub, a.policy, a.log)
			if _, err := svc.Activate(ctx); err != nil {
				return err
			}

			draft := svc.BeginDraft(today())
			draft.Type, _ = cmd.Flags().GetString("type")
			draft.Value, _ = cmd.Flags().GetFloat64("value")
			if v, _ := cmd.Flags().GetString("date"); v != "" {
				draft.Date = v
			}
			draft.Notes, _ = cmd.Flags().GetString("notes")

			rec, err := svc.Submit(ctx, draft)
			if err != nil {
				svc.Cancel()
				return err
			}
			fmt.Printf("Recorded %s: %g %s (%s)\n", rec.Type, rec.Value, rec.Unit, rec.ID)
			return nil
		},
	}
	addCmd.Flags().String("type", "", "vital sign type, e.g. 'Heart Rate'")
	addCmd.Flags().Float64("value", 0, "measured value")
	addCmd.Flags().String("date", "", "reading date (YYYY-MM-DD, default today)")
	addCmd.Flags().String("notes", "", "free-form notes")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "trend <type>",
		Short: "Chart samples for one type, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			svc := vitals.NewService(a.sub, a.policy, a.log)
			if _, err := svc.Activate(ctx); err != nil {
				return err
			}
			series := svc.TrendSeries(args[0])
			if len(series) == 0 {
				fmt.Println("No readings for that type.")
				return nil
			}
			for _, p := range series {
				fmt.Printf("%s  %g\n", p.Date, p.Value)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a reading by identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			svc := vitals.NewService(a.sub, a.policy, a.log)
			if _, err := svc.Activate(ctx); err != nil {
				return err
			}
			if err := svc.Remove(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println("Removed.")
			return nil
		},
	})

	return cmd
}

func contactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Manage emergency contacts",
	}

	newSvc := func(ctx context.Context) (*contacts.Service, func(), error) {
		a, err := newApp(ctx)
		if err != nil {
			return nil, nil, err
		}
		svc := contacts.NewService(a.sub, a.policy, dialer.OS{}, a.log)
		if _, err := svc.Activate(ctx); err != nil {
			a.close()
			return nil, nil, err
		}
		return svc, a.close, nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show saved contacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := newSvc(cmd.Context())
			if err != nil {
				return err
			}
			defer done()
			for _, c := range svc.History() {
				fmt.Printf("%s  %-20s %-14s %s\n", c.ID, c.Name, c.Relationship, c.Phone)
			}
			return nil
		},
	})

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Save an emergency contact",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, done, err := newSvc(ctx)
			if err != nil {
				return err
			}
			defer done()

			draft := svc.BeginDraft(today())
			draft.Name, _ = cmd.Flags().GetString("name")
			draft.Relationship, _ = cmd.Flags().GetString("relationship")
			draft.Phone, _ = cmd.Flags().GetString("phone")
			draft.Email, _ = cmd.Flags().GetString("email")
			draft.Address, _ = cmd.Flags().GetString("address")

			rec, err := svc.Submit(ctx, draft)
			if err != nil {
				svc.Cancel()
				return err
			}
			fmt.Printf("Saved %s (%s)\n", rec.Name, rec.ID)
			return nil
		},
	}
	addCmd.Flags().String("name", "", "contact name")
	addCmd.Flags().String("relationship", "", "relationship to you")
	addCmd.Flags().String("phone", "", "phone number")
	addCmd.Flags().String("email", "", "email address")
	addCmd.Flags().String("address", "", "postal address")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a contact by identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, done, err := newSvc(ctx)
			if err != nil {
				return err
			}
			defer done()
			if err := svc.Remove(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println("Removed.")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "call <id>",
		Short: "Dial a saved contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := newSvc(cmd.Context())
			if err != nil {
				return err
			}
			defer done()
			return svc.Call(cmd.Context(), args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "directory",
		Short: "Show the emergency service directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, svc := range contacts.Directory {
				fmt.Printf("%-16s %-16s %s\n", svc.Name, svc.Number, svc.Description)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "emergency <service>",
		Short: "Dial an emergency service by name, e.g. 'Poison Control'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := newSvc(cmd.Context())
			if err != nil {
				return err
			}
			defer done()
			return svc.CallService(args[0])
		},
	})

	return cmd
}

func symptomsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "symptoms",
		Short: "List the consultation symptom catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range consult.Symptoms {
				fmt.Printf("%2d. %s %-14s %s\n", s.ID, s.Icon, s.Name, s.Description)
			}
			return nil
		},
	}
}

func consultCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consult",
		Short: "Request a consultation for a symptom",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			symptomName, _ := cmd.Flags().GetString("symptom")
			symptom, ok := consult.FindSymptom(symptomName)
			if !ok {
				return fmt.Errorf("unknown symptom %q; run 'healthconsult symptoms' for the catalog", symptomName)
			}

			flow := consult.NewFlow(consult.SimulatedSubmitter{Delay: a.cfg.SubmitDelay()}, a.log)
			flow.SelectSymptom(symptom)

			for field, flag := range map[string]string{
				"name":               "name",
				"age":                "age",
				"gender":             "gender",
				"email":              "email",
				"phone":              "phone",
				"duration":           "duration",
				"severity":           "severity",
				"additionalNotes":    "notes",
				"emergencyContact":   "emergency-contact",
				"allergies":          "allergies",
				"currentMedications": "current-medications",
			} {
				if v, _ := cmd.Flags().GetString(flag); v != "" {
					if err := flow.UpdateField(field, v); err != nil {
						return err
					}
				}
			}

			fmt.Println("Submitting consultation request...")
			rec, err := flow.Submit(ctx)
			if err != nil {
				for field, msg := range flow.Errors() {
					fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
				}
				return err
			}

			fmt.Println("Consultation request submitted.")
			fmt.Printf("  Confirmation: %s\n", rec.ConsultationID)
			fmt.Printf("  Symptom:      %s\n", rec.Symptom)
			fmt.Printf("  Patient:      %s, age %s\n", rec.Name, rec.Age)
			fmt.Printf("  Submitted:    %s\n", rec.SubmittedAt.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().String("symptom", "", "symptom name from the catalog")
	cmd.Flags().String("name", "", "patient name")
	cmd.Flags().String("age", "", "patient age (1-120)")
	cmd.Flags().String("gender", "", "one of: "+strings.Join(consult.GenderOptions, ", "))
	cmd.Flags().String("email", "", "contact email (optional)")
	cmd.Flags().String("phone", "", "contact phone (optional)")
	cmd.Flags().String("duration", "", "one of: "+strings.Join(consult.DurationOptions, ", "))
	cmd.Flags().String("severity", "", "one of: "+strings.Join(consult.SeverityOptions, ", "))
	cmd.Flags().String("notes", "", "additional notes")
	cmd.Flags().String("emergency-contact", "", "emergency contact phone")
	cmd.Flags().String("allergies", "", "known allergies")
	cmd.Flags().String("current-medications", "", "current medications")

	return cmd
}
