package config

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server           Server
	Database         Database
	GeminiApiKey     string
	Google           GoogleOAuth
	AuthorizedEmails []string
	SessionSecret    string
	Cloudinary       Cloudinary
	Sheets           Sheets
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type GoogleOAuth struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type Cloudinary struct {
	CloudName string
	ApiKey    string
	ApiSecret string
}

// Sheets configures the optional feedback-sheet mirror. Leaving both fields
// empty disables mirroring.
type Sheets struct {
	CredentialsFile string
	SpreadsheetID   string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")

	config.Google.ClientID = viper.GetString("GOOGLE_CLIENT_ID")
	config.Google.ClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	config.Google.RedirectURL = viper.GetString("OAUTH_REDIRECT_URL")

	config.SessionSecret = viper.GetString("SESSION_SECRET")

	config.Cloudinary.CloudName = viper.GetString("CLOUDINARY_CLOUD_NAME")
	config.Cloudinary.ApiKey = viper.GetString("CLOUDINARY_API_KEY")
	config.Cloudinary.ApiSecret = viper.GetString("CLOUDINARY_API_SECRET")

	config.Sheets.CredentialsFile = viper.GetString("SHEETS_CREDENTIALS_FILE")
	config.Sheets.SpreadsheetID = viper.GetString("SHEETS_SPREADSHEET_ID")

	for _, email := range strings.Split(viper.GetString("AUTHORIZED_EMAILS"), ",") {
		email = strings.TrimSpace(email)
		if email != "" {
			config.AuthorizedEmails = append(config.AuthorizedEmails, email)
		}
	}

	log.Info().Str("port", config.Server.Port).Int("authorizedEmails", len(config.AuthorizedEmails)).Msg("Config loaded")
	return &config, nil
}

// IsEmailAuthorized reports whether email is on the admin allow-list.
func (c *Config) IsEmailAuthorized(email string) bool {
	for _, allowed := range c.AuthorizedEmails {
		if strings.EqualFold(allowed, email) {
			return true
		}
	}
	return false
}
