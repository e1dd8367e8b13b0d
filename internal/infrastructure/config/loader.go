package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/covfix/covfix/internal/application"
)

type Loader struct{}

type fileConfig struct {
	Database     string           `yaml:"database,omitempty"`
	SourceRoot   string           `yaml:"source_root,omitempty"`
	Rewrite      *fileRewrite     `yaml:"rewrite,omitempty"`
	Report       fileReport       `yaml:"report,omitempty"`
	Omit         fileOmit         `yaml:"omit,omitempty"`
	Results      fileResults      `yaml:"results,omitempty"`
	Requirements fileRequirements `yaml:"requirements,omitempty"`
}

type fileRewrite struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

type fileReport struct {
	Precision int    `yaml:"precision,omitempty"`
	HTMLDir   string `yaml:"html_dir,omitempty"`
	XML       string `yaml:"xml,omitempty"`
}

type fileOmit struct {
	Patterns []string `yaml:"patterns,omitempty"`
	ConfDir  string   `yaml:"conf_dir,omitempty"`
}

type fileResults struct {
	Dir string `yaml:"dir,omitempty"`
}

type fileRequirements struct {
	Output string `yaml:"output,omitempty"`
}

func (l Loader) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (l Loader) Load(path string) (application.Config, error) {
	raw, err := os.ReadFile(path) // #nosec G304 - caller-supplied config path
	if err != nil {
		return application.Config{}, err
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return application.Config{}, err
	}

	out := application.DefaultConfig()
	if cfg.Database != "" {
		out.Database = cfg.Database
	}
	out.SourceRoot = cfg.SourceRoot
	if cfg.Report.Precision > 0 {
		out.Report.Precision = cfg.Report.Precision
	}
	out.Report.HTMLDir = cfg.Report.HTMLDir
	out.Report.XMLPath = cfg.Report.XML
	out.Omit = application.OmitConfig{Patterns: cfg.Omit.Patterns, ConfDir: cfg.Omit.ConfDir}
	out.ResultsDir = cfg.Results.Dir
	out.Requirements = cfg.Requirements.Output

	if cfg.Rewrite != nil {
		if cfg.Rewrite.From == "" || cfg.Rewrite.To == "" {
			return application.Config{}, fmt.Errorf("rewrite needs both from and to")
		}
		out.Rewrite = &application.RewriteRule{From: cfg.Rewrite.From, To: cfg.Rewrite.To}
	}
	return out, nil
}

// OmitFiles reads the OS-specific omit list omit-files-<os> from confDir.
// A missing list file contributes nothing.
func (l Loader) OmitFiles(confDir, osName string) ([]string, error) {
	path := filepath.Join(confDir, "omit-files-"+osName)
	file, err := os.Open(path) // #nosec G304 - path rooted in configured conf dir
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var patterns []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if line != "" {
			patterns = append(patterns, line)
		}
	}
	return patterns, scanner.Err()
}

func Write(w io.Writer, cfg application.Config) error {
	out := fileConfig{
		Database:   cfg.Database,
		SourceRoot: cfg.SourceRoot,
		Report: fileReport{
			Precision: cfg.Report.Precision,
			HTMLDir:   cfg.Report.HTMLDir,
			XML:       cfg.Report.XMLPath,
		},
		Omit:         fileOmit{Patterns: cfg.Omit.Patterns, ConfDir: cfg.Omit.ConfDir},
		Results:      fileResults{Dir: cfg.ResultsDir},
		Requirements: fileRequirements{Output: cfg.Requirements},
	}
	if cfg.Rewrite != nil {
		out.Rewrite = &fileRewrite{From: cfg.Rewrite.From, To: cfg.Rewrite.To}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	return enc.Encode(out)
}
