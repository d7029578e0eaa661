package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WhoamiOutput contains the information displayed by the whoami command.
type WhoamiOutput struct {
	ConfigPath string `json:"config_path"`
	BaseURL    string `json:"base_url"`
	UserID     string `json:"user_id"`
	TokenEnv   string `json:"token_env"`
	TokenSet   bool   `json:"token_set"`
	LogLevel   string `json:"log_level"`
}

// Whoami loads the config and reports who and where requests go to.
// If configPath is empty, the detected config or the defaults are used.
func Whoami(configPath string) (*WhoamiOutput, error) {
	s, err := Open(SessionOptions{ConfigPath: configPath, Interactive: true, SkipDotenv: true})
	if err != nil {
		return nil, err
	}
	defer s.Close()

	path := s.ConfigPath
	if path == "" {
		path = "(defaults)"
	}

	return &WhoamiOutput{
		ConfigPath: path,
		BaseURL:    s.Client.BaseURL(),
		UserID:     s.Config.Dashboard.UserID,
		TokenEnv:   s.Config.API.TokenEnv,
		TokenSet:   s.Config.API.TokenEnv != "" && os.Getenv(s.Config.API.TokenEnv) != "",
		LogLevel:   s.Config.Logging.Level,
	}, nil
}

// PrintWhoami prints whoami information in plain text format.
func PrintWhoami(w io.Writer, output *WhoamiOutput) {
	token := "not set"
	if output.TokenSet {
		token = "set"
	}
	fmt.Fprintf(w, "Config: %s\n", output.ConfigPath)
	fmt.Fprintf(w, "API: %s\n", output.BaseURL)
	fmt.Fprintf(w, "User: %s\n", output.UserID)
	fmt.Fprintf(w, "Token: $%s (%s)\n", output.TokenEnv, token)
	fmt.Fprintf(w, "Log level: %s\n", output.LogLevel)
}

// PrintWhoamiJSON prints whoami information in JSON format.
func PrintWhoamiJSON(w io.Writer, output *WhoamiOutput) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}
