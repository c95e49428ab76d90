// Package conf reads line-oriented value lists and YAML training options.
package conf

import (
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Conf struct {
	Values []string
}

// Read returns the non-empty, non-comment lines of reader.
func Read(reader io.Reader) (*Conf, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(data), "\n")
	retval := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) > 0 && line[0] != '#' {
			retval = append(retval, line)
		}
	}
	return &Conf{retval}, nil
}

func ReadFile(filename string) (*Conf, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Read(file)
}

// Options holds the trainer and applier settings that may be given in a YAML file.
// Negative Margin or Epsilon values are relative to the largest feature vector norm.
type Options struct {
	Iterations     int     `yaml:"iterations"`
	Kernel         string  `yaml:"kernel"`
	Exponent       float64 `yaml:"exponent"`
	Range          int     `yaml:"range"`
	PositiveWeight float64 `yaml:"positiveWeight"`
	NegativeWeight float64 `yaml:"negativeWeight"`
	Margin         float64 `yaml:"margin"`
	Epsilon        float64 `yaml:"epsilon"`
	Seed           int64   `yaml:"seed"`
	Shuffle        bool    `yaml:"shuffle"`
	MaxCorrections int     `yaml:"maxCorrections"`
	Averaged       bool    `yaml:"averaged"`
	Voted          bool    `yaml:"voted"`
	Scale          float64 `yaml:"scale"`
	Threshold      float64 `yaml:"threshold"`
	PositiveClass  string  `yaml:"positiveClass"`
	NegativeClass  string  `yaml:"negativeClass"`
}

func DefaultOptions() Options {
	return Options{
		Iterations:     10,
		Kernel:         "none",
		Exponent:       1,
		Range:          255,
		PositiveWeight: 1,
		NegativeWeight: 1,
		MaxCorrections: 1000000,
		Scale:          255,
		PositiveClass:  "positive",
		NegativeClass:  "negative",
	}
}

// ReadOptions decodes YAML into a copy of base; keys absent from the document keep
// their base value.
func ReadOptions(reader io.Reader, base Options) (Options, error) {
	opts := base
	dec := yaml.NewDecoder(reader)
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && err != io.EOF {
		return base, err
	}
	return opts, nil
}

func ReadOptionsFile(filename string, base Options) (Options, error) {
	file, err := os.Open(filename)
	if err != nil {
		return base, err
	}
	defer file.Close()
	return ReadOptions(file, base)
}
