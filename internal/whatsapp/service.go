package whatsapp

import (
	"context"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types/events"

	"wedding-rsvp/internal/models"
)

type Config struct {
	DataDir     string
	NotifyPhone string
}

// Service pushes a short WhatsApp message to the couple for every RSVP
type Service struct {
	client *whatsmeow.Client
	cfg    *Config
	log    zerolog.Logger
}

// NewService creates a new WhatsApp service
func NewService(ctx context.Context, cfg *Config, log zerolog.Logger) (*Service, error) {
	logger := log.With().Str("component", "WhatsApp").Logger()

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// Use nil logger - sqlstore will use a no-op logger by default
	container, err := sqlstore.New(ctx, "sqlite3", fmt.Sprintf("file:%s/whatsmeow.db?_foreign_keys=on", cfg.DataDir), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	client := whatsmeow.NewClient(deviceStore, nil)

	service := &Service{
		client: client,
		cfg:    cfg,
		log:    logger,
	}

	client.AddEventHandler(func(evt interface{}) {
		service.eventHandler(evt)
	})

	return service, nil
}

// NormalizePhoneNumber normalizes phone numbers to international format.
// Belgian numbers written nationally (04xx xx xx xx) or with the 00 prefix
// are converted to 32 format.
func NormalizePhoneNumber(phoneNumber string) string {
	replacer := strings.NewReplacer("+", "", " ", "", "-", "", "(", "", ")", "", ".", "", "/", "")
	phoneNumber = replacer.Replace(phoneNumber)

	// 0032 4xx ... -> 32 4xx ...
	if strings.HasPrefix(phoneNumber, "00") {
		phoneNumber = phoneNumber[2:]
	}

	// National mobile format: 04XXXXXXXX -> 324XXXXXXXX
	if strings.HasPrefix(phoneNumber, "04") && len(phoneNumber) == 10 {
		phoneNumber = "32" + phoneNumber[1:]
	}

	// 320 4xx: trunk zero left in after the country code
	if strings.HasPrefix(phoneNumber, "320") {
		phoneNumber = "32" + phoneNumber[3:]
	}

	return phoneNumber
}

// Connect connects to WhatsApp, showing a pairing QR code on first run
func (s *Service) Connect(ctx context.Context) error {
	if s.client.Store.ID != nil {
		if err := s.client.Connect(); err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}
		return nil
	}

	qrChan, _ := s.client.GetQRChannel(ctx)
	if err := s.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	for evt := range qrChan {
		if evt.Event != "code" {
			s.log.Info().Str("event", evt.Event).Msg("Login event")
			continue
		}
		q, err := qrcode.New(evt.Code, qrcode.Medium)
		if err != nil {
			fmt.Printf("QR Code: %s\n", evt.Code)
			fmt.Println("Please scan this QR code with WhatsApp to connect.")
			continue
		}
		fmt.Println("\n" + q.ToSmallString(false))
		fmt.Println("📱 Scan the QR code above with WhatsApp:")
		fmt.Println("   1. Open WhatsApp on your phone")
		fmt.Println("   2. Go to Settings > Linked Devices")
		fmt.Println("   3. Tap 'Link a Device'")
		fmt.Println("   4. Scan the QR code shown above")
	}
	return nil
}

// Disconnect disconnects from WhatsApp
func (s *Service) Disconnect() {
	s.client.Disconnect()
}

// Deliver sends the RSVP summary to the couple's phone. It implements form.Sink.
func (s *Service) Deliver(ctx context.Context, rec models.SubmissionRecord) error {
	return s.SendMessage(ctx, s.cfg.NotifyPhone, FormatNotification(rec))
}

// FormatNotification renders one record as a WhatsApp message
func FormatNotification(rec models.SubmissionRecord) string {
	var b strings.Builder
	if rec.Attending() {
		fmt.Fprintf(&b, "✅ *%s* komt", rec.Name)
		if rec.Event != "" {
			fmt.Fprintf(&b, " (%s)", strings.ToLower(rec.Event))
		}
		b.WriteString("!")
		if rec.Dietary != "" && rec.Dietary != models.NoDietary {
			fmt.Fprintf(&b, "\n🍽 %s", rec.Dietary)
		}
		if len(rec.Songs) > 0 {
			fmt.Fprintf(&b, "\n🎵 %s", strings.Join(rec.Songs, ", "))
		}
	} else {
		fmt.Fprintf(&b, "❌ *%s* kan er helaas niet bij zijn.", rec.Name)
	}
	if rec.Tier == string(models.TierTest) {
		b.WriteString("\n(test)")
	}
	return b.String()
}

// SendMessage sends a simple text message
func (s *Service) SendMessage(ctx context.Context, phoneNumber, message string) error {
	phoneNumber = NormalizePhoneNumber(phoneNumber)

	// Verify the number is on WhatsApp before sending
	resp, err := s.client.IsOnWhatsApp(ctx, []string{phoneNumber})
	if err != nil {
		return fmt.Errorf("failed to verify number on WhatsApp: %w", err)
	}
	if len(resp) == 0 || !resp[0].IsIn {
		return fmt.Errorf("number %s is not registered on WhatsApp", phoneNumber)
	}
	jid := resp[0].JID

	s.log.Debug().Str("jid", jid.String()).Str("phone", phoneNumber).Msg("Attempting to send message")

	sentMsg, err := s.client.SendMessage(ctx, jid, &waE2E.Message{
		Conversation: &message,
	})
	if err != nil {
		if strings.Contains(err.Error(), "unknown server") || strings.Contains(err.Error(), "can't send message") {
			return fmt.Errorf("failed to send message to %s (JID: %s): %w; the number must be in the phone's contacts", phoneNumber, jid.String(), err)
		}
		return fmt.Errorf("failed to send message: %w", err)
	}

	s.log.Info().Str("id", sentMsg.ID).Time("timestamp", sentMsg.Timestamp).Msg("Message sent")
	return nil
}

// eventHandler handles incoming WhatsApp events
func (s *Service) eventHandler(evt interface{}) {
	switch evt := evt.(type) {
	case *events.Message:
		if evt.Info.IsFromMe {
			return
		}
		s.log.Info().
			Str("sender", evt.Info.Sender.String()).
			Str("message", evt.Message.GetConversation()).
			Msg("Received message")
	case *events.Connected:
		s.log.Info().Msg("Connected to WhatsApp")
	case *events.Disconnected:
		s.log.Info().Msg("Disconnected from WhatsApp")
	case *events.LoggedOut:
		s.log.Info().Msg("Logged out from WhatsApp")
	}
}
