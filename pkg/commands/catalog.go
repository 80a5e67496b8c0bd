package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/lisanmuaddib/x402bot/pkg/bot"
	"gopkg.in/yaml.v3"
)

// CatalogEntry is a command whose reply is fixed text. {username} and
// {fee} in the reply are substituted.
type CatalogEntry struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Fee         float64 `yaml:"fee"`
	Reply       string  `yaml:"reply"`
}

// Catalog is the file format for static commands:
//
//	commands:
//	  - name: about
//	    description: What is this bot
//	    reply: "🤖 I answer commands in mentions, @{username}."
//	  - name: alpha
//	    fee: 0.002
//	    reply: "🔒 Paid {fee} for alpha."
type Catalog struct {
	Commands []CatalogEntry `yaml:"commands"`
}

// LoadCatalog reads a catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read command catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse command catalog: %w", err)
	}

	seen := make(map[string]bool, len(c.Commands))
	for i, e := range c.Commands {
		name := strings.ToLower(strings.TrimSpace(e.Name))
		switch {
		case name == "":
			return nil, fmt.Errorf("catalog entry %d: name is required", i)
		case seen[name]:
			return nil, fmt.Errorf("catalog entry %d: duplicate command %q", i, name)
		case strings.TrimSpace(e.Reply) == "":
			return nil, fmt.Errorf("catalog entry %q: reply is required", name)
		case e.Fee < 0:
			return nil, fmt.Errorf("catalog entry %q: fee cannot be negative", name)
		}
		seen[name] = true
		c.Commands[i].Name = name
	}
	return &c, nil
}

// Handler returns the static reply handler for the entry.
func (e CatalogEntry) Handler(currency string) bot.Handler {
	return Describe(bot.HandlerFunc(func(ctx context.Context, username string, cmd bot.Command) (string, error) {
		fee := e.Fee
		if inv, ok := bot.InvocationFromContext(ctx); ok {
			fee = inv.Fee
		}
		r := strings.NewReplacer(
			"{username}", username,
			"{fee}", strings.TrimSpace(FormatFee(fee)+" "+currency),
		)
		return r.Replace(e.Reply), nil
	}), e.Description)
}
