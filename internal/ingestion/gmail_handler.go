package ingestion

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailHandler fetches resume attachments from a Gmail inbox into the
// uploads directory, where they go through the same gate and batch
// pipeline as browser uploads.
type GmailHandler struct {
	service     *gmail.Service
	uploadsDir  string
	maxFileSize int64
}

// NewGmailHandler creates a new Gmail handler using OAuth credentials at
// credentialsPath.
func NewGmailHandler(ctx context.Context, credentialsPath, uploadsDir string, maxFileSize int64) (*GmailHandler, error) {
	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, gmail.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	client, err := getClient(ctx, config)
	if err != nil {
		return nil, err
	}

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail client: %w", err)
	}

	return &GmailHandler{
		service:     srv,
		uploadsDir:  uploadsDir,
		maxFileSize: maxFileSize,
	}, nil
}

// getClient retrieves a token, saves it, then returns the generated client
func getClient(ctx context.Context, config *oauth2.Config) (*http.Client, error) {
	tokFile := "token.json"
	tok, err := tokenFromFile(tokFile)
	if err != nil {
		tok, err = getTokenFromWeb(ctx, config)
		if err != nil {
			return nil, err
		}
		if err := saveToken(tokFile, tok); err != nil {
			log.Warn().Err(err).Msg("unable to cache oauth token")
		}
	}
	return config.Client(ctx, tok), nil
}

// getTokenFromWeb requests a token from the web
func getTokenFromWeb(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Go to the following link in your browser then type the authorization code: \n%v\n", authURL)

	var authCode string
	if _, err := fmt.Scan(&authCode); err != nil {
		return nil, fmt.Errorf("unable to read authorization code: %w", err)
	}

	tok, err := config.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve token from web: %w", err)
	}
	return tok, nil
}

// tokenFromFile retrieves a token from a local file
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

// saveToken saves a token to a file path
func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache oauth token: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// FetchResumes downloads attachments from messages matching subject into
// the uploads directory and returns the saved file paths. Attachments
// that fail the upload gate are skipped with a log entry; they never
// reach extraction.
func (gh *GmailHandler) FetchResumes(ctx context.Context, subject string) ([]string, error) {
	if err := os.MkdirAll(gh.uploadsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}

	user := "me"
	query := fmt.Sprintf("subject:%s has:attachment", subject)

	r, err := gh.service.Users.Messages.List(user).Q(query).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve messages: %w", err)
	}

	if len(r.Messages) == 0 {
		return nil, fmt.Errorf("no messages found with subject: %s", subject)
	}

	var saved []string
	for _, msg := range r.Messages {
		if err := ctx.Err(); err != nil {
			return saved, err
		}

		message, err := gh.service.Users.Messages.Get(user, msg.Id).Context(ctx).Do()
		if err != nil {
			log.Warn().Err(err).Str("message", msg.Id).Msg("unable to retrieve message")
			continue
		}

		senderName := extractSenderName(message)

		for _, part := range message.Payload.Parts {
			if part.Filename == "" || part.Body.AttachmentId == "" {
				continue
			}

			if err := ValidateUpload(part.Filename, part.Body.Size, gh.maxFileSize); err != nil {
				log.Warn().Str("file", part.Filename).Str("reason", err.Error()).
					Msg("skipping attachment rejected by the upload gate")
				continue
			}

			attachment, err := gh.service.Users.Messages.Attachments.Get(user, msg.Id, part.Body.AttachmentId).Context(ctx).Do()
			if err != nil {
				log.Warn().Err(err).Str("file", part.Filename).Msg("unable to retrieve attachment")
				continue
			}

			data, err := base64.URLEncoding.DecodeString(attachment.Data)
			if err != nil {
				log.Warn().Err(err).Str("file", part.Filename).Msg("unable to decode attachment")
				continue
			}

			ext := filepath.Ext(part.Filename)
			filename := fmt.Sprintf("%s_%s", senderName, filepath.Base(part.Filename))
			if !strings.Contains(strings.ToLower(part.Filename), strings.ToLower(senderName)) {
				filename = fmt.Sprintf("%s_Resume%s", senderName, ext)
			}

			filePath := filepath.Join(gh.uploadsDir, filename)
			if err := os.WriteFile(filePath, data, 0644); err != nil {
				log.Warn().Err(err).Str("file", filePath).Msg("unable to write attachment")
				continue
			}

			saved = append(saved, filePath)
			log.Info().Str("file", filename).Msg("downloaded resume attachment")
		}
	}

	return saved, nil
}

// extractSenderName extracts the sender's name from email headers
func extractSenderName(message *gmail.Message) string {
	for _, header := range message.Payload.Headers {
		if header.Name == "From" {
			// Parse "Name <email@example.com>" format
			from := header.Value
			if idx := strings.Index(from, "<"); idx > 0 {
				name := strings.TrimSpace(from[:idx])
				name = strings.ReplaceAll(name, " ", "")
				return name
			}
			// If no name, use email prefix
			if idx := strings.Index(from, "@"); idx > 0 {
				return from[:idx]
			}
			return "Unknown"
		}
	}
	return "Unknown"
}
