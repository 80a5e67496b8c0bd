// Package logging configures logrus for the bot.
package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// priorityFields are printed first, in this order, and highlighted.
var priorityFields = map[string]int{
	"time":     1,
	"level":    2,
	"msg":      3,
	"cycle_id": 4,
	"tweet_id": 5,
	"username": 6,
	"command":  7,
	"error":    8,
}

// ColoredJSONFormatter prints one line per entry: time, level and message
// followed by key=value pairs with JSON-encoded values.
type ColoredJSONFormatter struct {
	// Include timestamp in the output
	TimestampFormat string
	// Customize field sorting
	SortingFunc func([]string) []string
	// Disable colors when not in terminal
	DisableColors bool
}

func NewColoredJSONFormatter() *ColoredJSONFormatter {
	return &ColoredJSONFormatter{
		TimestampFormat: time.RFC3339,
		SortingFunc:     defaultFieldSorting,
	}
}

func (f *ColoredJSONFormatter) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if f.DisableColors {
		c.DisableColor()
	}
	return c
}

func (f *ColoredJSONFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	if f.SortingFunc != nil {
		keys = f.SortingFunc(keys)
	} else {
		sort.Strings(keys)
	}

	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	levelColor := f.paint(levelAttrs(entry.Level)...)
	timeColor := f.paint(color.FgYellow)
	valueColor := f.paint(color.FgWhite)

	format := f.TimestampFormat
	if format == "" {
		format = time.RFC3339
	}
	b.WriteString(timeColor.Sprint(entry.Time.Format(format)))
	b.WriteByte(' ')
	b.WriteString(levelColor.Sprintf("%-7s", strings.ToUpper(entry.Level.String())))
	b.WriteByte(' ')
	b.WriteString(levelColor.Sprint(entry.Message))

	for _, k := range keys {
		fieldColor := f.paint(color.FgCyan)
		if _, ok := priorityFields[k]; ok {
			fieldColor = f.paint(color.FgGreen)
		}

		b.WriteByte(' ')
		b.WriteString(fieldColor.Sprintf("%s=", k))
		b.WriteString(valueColor.Sprint(formatValue(entry.Data[k])))
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

func formatValue(v interface{}) string {
	switch v := v.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case error:
		return fmt.Sprintf("%q", v.Error())
	case fmt.Stringer:
		return fmt.Sprintf("%q", v.String())
	default:
		jsonBytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(jsonBytes)
	}
}

func levelAttrs(level logrus.Level) []color.Attribute {
	switch level {
	case logrus.TraceLevel, logrus.DebugLevel:
		return []color.Attribute{color.FgBlue}
	case logrus.InfoLevel:
		return []color.Attribute{color.FgGreen}
	case logrus.WarnLevel:
		return []color.Attribute{color.FgYellow}
	case logrus.ErrorLevel:
		return []color.Attribute{color.FgRed}
	case logrus.FatalLevel, logrus.PanicLevel:
		return []color.Attribute{color.FgRed, color.Bold}
	default:
		return []color.Attribute{color.FgWhite}
	}
}

func defaultFieldSorting(keys []string) []string {
	sort.Slice(keys, func(i, j int) bool {
		iPriority := priorityFields[keys[i]]
		jPriority := priorityFields[keys[j]]
		if iPriority != 0 && jPriority != 0 {
			return iPriority < jPriority
		}
		if iPriority != 0 {
			return true
		}
		if jPriority != 0 {
			return false
		}
		return keys[i] < keys[j]
	})
	return keys
}

// NewLogger returns a logger writing to out at the given level. format is
// "json" for logrus.JSONFormatter, "text" for uncolored lines and anything
// else for colored lines.
func NewLogger(out io.Writer, level, format string) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(out)

	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	case "text":
		f := NewColoredJSONFormatter()
		f.DisableColors = true
		logger.SetFormatter(f)
	default:
		logger.SetFormatter(NewColoredJSONFormatter())
	}
	return logger, nil
}
