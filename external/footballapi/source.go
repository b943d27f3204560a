package footballapi

import (
	"context"

	"github.com/riskibarqy/match-predictor/internal/domain/prediction"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
)

// Mode selects how the source behaves. It is resolved once at process
// start from the configuration; nothing reads ambient state afterwards.
type Mode string

const (
	// ModeLive issues provider requests and only falls back on failure.
	ModeLive Mode = "live"
	// ModeOffline always serves the built-in sample set.
	ModeOffline Mode = "offline"
)

const (
	originLive     = "live"
	originFallback = "fallback"
)

type SourceConfig struct {
	Mode   Mode
	Client *Client
	Logger *logging.Logger
}

// Source is the upstream prediction source the query engine depends on.
// From the caller's perspective it cannot fail: any live-mode problem is
// absorbed by the fallback sample set.
type Source struct {
	mode   Mode
	client *Client
	logger *logging.Logger
}

func NewSource(cfg SourceConfig) *Source {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	mode := cfg.Mode
	if mode != ModeLive || cfg.Client == nil {
		mode = ModeOffline
	}

	return &Source{
		mode:   mode,
		client: cfg.Client,
		logger: logger,
	}
}

func (s *Source) Mode() Mode {
	return s.mode
}

// FetchPredictions returns the normalized record set for date. The fetch
// outcome (live vs fallback and the fallback reason) is logged rather than
// surfaced; callers always receive a usable slice.
func (s *Source) FetchPredictions(ctx context.Context, date string) []prediction.Record {
	if s.mode == ModeOffline {
		records := samplePredictions(date)
		s.logger.DebugContext(ctx, "serving offline sample predictions",
			"origin", originFallback,
			"date", date,
			"records", len(records),
		)
		return records
	}

	items, err := s.client.FetchMatchesByDate(ctx, date)
	if err != nil {
		records := samplePredictions(date)
		s.logger.WarnContext(ctx, "live fetch failed, falling back to sample predictions",
			"origin", originFallback,
			"date", date,
			"reason", err,
			"records", len(records),
		)
		return records
	}

	records := normalizeMatches(items, date)
	s.logger.InfoContext(ctx, "fetched live predictions",
		"origin", originLive,
		"date", date,
		"raw_matches", len(items),
		"records", len(records),
	)
	return records
}
