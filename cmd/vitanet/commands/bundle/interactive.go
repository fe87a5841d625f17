package bundle

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/vitanet/vitanet/internal/bundle"
	"github.com/vitanet/vitanet/internal/cli/prompt"
	"github.com/vitanet/vitanet/internal/errors"
)

func findBundle(bundles []bundle.Summary) (string, error) {
	idx, err := fuzzyfinder.Find(
		bundles,
		func(i int) string {
			return bundles[i].Name
		},
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			return describeSummary(bundles[i])
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", nil
		}
		return "", errors.Wrap(err, "interactive selection failed")
	}
	return bundles[idx].Path, nil
}

func promptBundle(r io.Reader, w io.Writer, bundles []bundle.Summary) (string, error) {
	labels := make([]string, len(bundles))
	for i, b := range bundles {
		labels[i] = summaryLabel(b)
	}

	idx, err := prompt.NewSelectorWithIO(r, w).Select("Bundles", labels)
	if err != nil {
		return "", errors.NewUserError(err, "Pass the bundle path as an argument instead")
	}
	return bundles[idx].Path, nil
}

func summaryLabel(s bundle.Summary) string {
	if s.Error != "" {
		return s.Name + " (unreadable)"
	}
	label := fmt.Sprintf("%s  %s  %s", s.Name,
		s.CreatedAt().Local().Format("2006-01-02 15:04"), humanize.IBytes(uint64(s.SizeBytes)))
	if d := s.Metadata.Description(); d != "" {
		label += "  " + d
	}
	return label
}

func describeSummary(s bundle.Summary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Path: %s\nSize: %s\n", s.Path, humanize.IBytes(uint64(s.SizeBytes)))
	if s.Error != "" {
		fmt.Fprintf(&sb, "\nUnreadable:\n%s\n", s.Error)
		return sb.String()
	}

	m := s.Metadata
	fmt.Fprintf(&sb, "Created: %s (%s)\n", m.CreatedAt.Local().Format("2006-01-02 15:04:05"), humanize.Time(m.CreatedAt))
	fmt.Fprintf(&sb, "Format: %s\nProducer: %s\nStore included: %t\n", m.FormatVersion, m.ProducerVersion, m.StoreIncluded)
	if d := m.Description(); d != "" {
		fmt.Fprintf(&sb, "\nDescription:\n%s\n", d)
	}
	return sb.String()
}
