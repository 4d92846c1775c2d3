package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"wedding-rsvp/internal/config"
	"wedding-rsvp/internal/export"
	"wedding-rsvp/internal/form"
	"wedding-rsvp/internal/handler"
	"wedding-rsvp/internal/invite"
	"wedding-rsvp/internal/middleware"
	"wedding-rsvp/internal/models"
	"wedding-rsvp/internal/sink"
	"wedding-rsvp/internal/storage"
	"wedding-rsvp/internal/whatsapp"
)

func main() {
	fmt.Println("💍 Wedding RSVP Server")
	fmt.Println("======================")

	// Load configuration
	cfg := config.LoadConfig()
	log := zerolog.New(os.Stdout).Level(cfg.LogLevel).With().Timestamp().Logger()
	ctx := context.Background()

	// Initialize storage
	responses, err := storage.NewStorage(cfg.DatabasePath, log)
	if err != nil {
		fmt.Printf("Error initializing storage: %v\n", err)
		os.Exit(1)
	}
	defer responses.Close()

	// Sheet first: it is the record the couple works from
	chain := sink.Chain{}
	if cfg.SheetWebhookURL != "" {
		chain = append(chain, sink.NewWebhook(cfg.SheetWebhookURL, 15*time.Second, log))
	} else {
		fmt.Println("⚠️  SHEET_WEBHOOK_URL not set, responses are only stored locally")
	}
	chain = append(chain, responses)

	// Initialize WhatsApp notifier
	var notifier *whatsapp.Service
	if cfg.NotifyEnabled() {
		notifier, err = whatsapp.NewService(ctx, &whatsapp.Config{
			DataDir:     cfg.WhatsAppDataDir,
			NotifyPhone: cfg.NotifyPhone,
		}, log)
		if err != nil {
			fmt.Printf("Error initializing WhatsApp service: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Connecting to WhatsApp...")
		if err := notifier.Connect(ctx); err != nil {
			fmt.Printf("Error connecting to WhatsApp: %v\n", err)
			os.Exit(1)
		}
		defer notifier.Disconnect()
		fmt.Println("✅ Connected to WhatsApp!")

		chain = append(chain, sink.NewBestEffort(notifier, "whatsapp", log))
	}

	// HTTP API
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	rsvpHandler := handler.NewRSVPHandler(invite.Default(), chain, log,
		form.WithObserver(func(from, to form.State) {
			if to == form.SubmitFailed {
				log.Warn().Str("from", string(from)).Msg("Submission failed, guest can retry")
			}
		}))
	rsvpHandler.RegisterRoutes(router, middleware.RateLimiter(cfg.SubmitRatePerMinute))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server stopped")
		}
	}()

	fmt.Printf("\n✅ Listening on :%s\n", cfg.Port)
	fmt.Printf("Wedding of %s & %s on %s\n", cfg.BrideName, cfg.GroomName, cfg.WeddingDate)

	// Start interactive CLI
	quit := make(chan struct{})
	go startCLI(responses, notifier, cfg, quit)

	// Wait for interrupt signal or CLI exit
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	select {
	case <-c:
	case <-quit:
	}

	fmt.Println("\n\nShutting down...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown")
	}
	fmt.Println("Goodbye! 👋")
}

func startCLI(responses *storage.Storage, notifier *whatsapp.Service, cfg *config.Config, quit chan<- struct{}) {
	scanner := bufio.NewScanner(os.Stdin)
	defer close(quit)

	for {
		fmt.Println("\nCommands:")
		fmt.Println("  1. View all responses")
		fmt.Println("  2. View responses by attendance")
		fmt.Println("  3. Head count per event")
		fmt.Println("  4. Export to Excel")
		fmt.Println("  5. Send WhatsApp test message")
		fmt.Println("  6. Exit")
		fmt.Print("\nEnter command (1-6): ")

		if !scanner.Scan() {
			// stdin closed (e.g. running as a service): keep serving
			select {}
		}

		command := strings.TrimSpace(scanner.Text())

		switch command {
		case "1":
			viewAllResponses(responses)
		case "2":
			viewResponsesByAttendance(scanner, responses)
		case "3":
			viewHeadCount(responses)
		case "4":
			exportResponses(responses, cfg.ExportDir)
		case "5":
			sendTestMessage(notifier, cfg)
		case "6":
			fmt.Println("Exiting...")
			return
		default:
			fmt.Println("Invalid command. Please try again.")
		}
	}
}

func viewAllResponses(responses *storage.Storage) {
	records, err := responses.GetAllResponses(context.Background())
	if err != nil {
		fmt.Printf("❌ Error loading responses: %v\n", err)
		return
	}
	if len(records) == 0 {
		fmt.Println("\nNo responses yet.")
		return
	}

	fmt.Printf("\n📋 All Responses (%d total):\n", len(records))
	printRecords(records)
}

func viewResponsesByAttendance(scanner *bufio.Scanner, responses *storage.Storage) {
	fmt.Println("\nSelect attendance:")
	fmt.Println("  1. Attending")
	fmt.Println("  2. Not attending")
	fmt.Print("Enter choice (1-2): ")

	if !scanner.Scan() {
		return
	}

	var attending bool
	switch strings.TrimSpace(scanner.Text()) {
	case "1":
		attending = true
	case "2":
		attending = false
	default:
		fmt.Println("Invalid choice.")
		return
	}

	records, err := responses.GetResponsesByAttendance(context.Background(), attending)
	if err != nil {
		fmt.Printf("❌ Error loading responses: %v\n", err)
		return
	}
	label := models.AttendanceNo
	if attending {
		label = models.AttendanceYes
	}
	if len(records) == 0 {
		fmt.Printf("\nNo responses with attendance '%s'.\n", label)
		return
	}

	fmt.Printf("\n📋 Responses with attendance '%s' (%d total):\n", label, len(records))
	printRecords(records)
}

func viewHeadCount(responses *storage.Storage) {
	counts, err := responses.CountByEvent(context.Background())
	if err != nil {
		fmt.Printf("❌ Error counting guests: %v\n", err)
		return
	}
	if len(counts) == 0 {
		fmt.Println("\nNobody has confirmed yet.")
		return
	}

	events := make([]string, 0, len(counts))
	for event := range counts {
		events = append(events, event)
	}
	sort.Strings(events)

	fmt.Println("\n👥 Head count:")
	fmt.Println(strings.Repeat("-", 30))
	for _, event := range events {
		fmt.Printf("%-20s %5d\n", event, counts[event])
	}
}

func exportResponses(responses *storage.Storage, dir string) {
	ctx := context.Background()
	records, err := responses.GetAllResponses(ctx)
	if err != nil {
		fmt.Printf("❌ Error loading responses: %v\n", err)
		return
	}
	counts, err := responses.CountByEvent(ctx)
	if err != nil {
		fmt.Printf("❌ Error counting guests: %v\n", err)
		return
	}

	path, err := export.WriteFile(dir, records, counts, time.Now())
	if err != nil {
		fmt.Printf("❌ Error exporting: %v\n", err)
		return
	}
	fmt.Printf("✅ Exported %d responses to %s\n", len(records), path)
}

func sendTestMessage(notifier *whatsapp.Service, cfg *config.Config) {
	if notifier == nil {
		fmt.Println("WhatsApp notifications are disabled (set WHATSAPP_NOTIFY_PHONE).")
		return
	}

	msg := fmt.Sprintf("🔔 Testbericht van de RSVP-server voor %s & %s.", cfg.BrideName, cfg.GroomName)
	if err := notifier.SendMessage(context.Background(), cfg.NotifyPhone, msg); err != nil {
		fmt.Printf("❌ Error sending message: %v\n", err)
		return
	}
	fmt.Println("✅ Test message sent!")
}

func printRecords(records []models.SubmissionRecord) {
	fmt.Println(strings.Repeat("-", 60))
	for _, rec := range records {
		fmt.Printf("Name: %s\n", rec.Name)
		fmt.Printf("Attending: %s\n", rec.Attendance)
		if rec.Event != "" {
			fmt.Printf("Event: %s\n", rec.Event)
		}
		if rec.Dietary != "" && rec.Dietary != models.NoDietary {
			fmt.Printf("Dietary: %s\n", rec.Dietary)
		}
		if len(rec.Songs) > 0 {
			fmt.Printf("Songs: %s\n", strings.Join(rec.Songs, "; "))
		}
		fmt.Printf("Submitted: %s\n", rec.SubmittedAt.Format("2006-01-02 15:04:05"))
		fmt.Println(strings.Repeat("-", 60))
	}
}
