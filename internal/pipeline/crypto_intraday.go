package pipeline

import (
	"context"
	"time"

	"github.com/sawpanic/marketlink/internal/domain"
	"github.com/sawpanic/marketlink/internal/extract"
	"github.com/sawpanic/marketlink/internal/scoring"
)

const cryptoIntradayAlgoVersion = "crypto_intraday@1.0.0:CRYPTO_INTRADAY"

// CryptoIntradayPipeline implements the CRYPTO_INTRADAY topic. It shares
// CryptoPipeline's gating/scoring shape but blocks on StartBucket instead
// of PeriodKey, and never auto-confirms (intraday up/down markets settle
// too fast for a human-safe confident auto-rule).
type CryptoIntradayPipeline struct{}

func (CryptoIntradayPipeline) Topic() domain.Topic { return domain.TopicCryptoIntraday }
func (CryptoIntradayPipeline) AlgoVersion() string { return cryptoIntradayAlgoVersion }
func (CryptoIntradayPipeline) SupportsAutoConfirm() bool { return false }
func (CryptoIntradayPipeline) SupportsAutoReject() bool { return true }

func (p CryptoIntradayPipeline) Fetch(ctx context.Context, repo domain.MarketRepository, opts FetchOptions) ([]MarketWithSignals, error) {
	return fetchAndExtract(ctx, repo, opts, cryptoTitleKeywords, func(m domain.Market, now time.Time) domain.Signals {
		return extract.ExtractCryptoIntraday(m, now)
	})
}

func (p CryptoIntradayPipeline) BuildIndex(markets []MarketWithSignals) map[string][]MarketWithSignals {
	index := make(map[string][]MarketWithSignals)
	for _, mws := range markets {
		sig, ok := mws.Signals.(domain.CryptoIntradaySignals)
		if !ok {
			continue
		}
		index[cryptoIntradayBlockingKey(sig)] = append(index[cryptoIntradayBlockingKey(sig)], mws)
	}
	return index
}

func cryptoIntradayBlockingKey(sig domain.CryptoIntradaySignals) string {
	entity := ""
	if sig.Entity != nil {
		entity = *sig.Entity
	}
	bucket := ""
	if sig.StartBucket != nil {
		bucket = sig.StartBucket.Format(time.RFC3339)
	}
	return entity + "|" + bucket
}

func (p CryptoIntradayPipeline) FindCandidates(left MarketWithSignals, index map[string][]MarketWithSignals) []MarketWithSignals {
	sig, ok := left.Signals.(domain.CryptoIntradaySignals)
	if !ok {
		return nil
	}
	return index[cryptoIntradayBlockingKey(sig)]
}

func (p CryptoIntradayPipeline) CheckHardGates(left, right MarketWithSignals) GateResult {
	ls, lok := left.Signals.(domain.CryptoIntradaySignals)
	rs, rok := right.Signals.(domain.CryptoIntradaySignals)
	if !lok || !rok {
		return GateResult{Passed: false, FailReason: "signals_type_mismatch"}
	}
	if ls.Entity == nil || rs.Entity == nil || *ls.Entity != *rs.Entity {
		return GateResult{Passed: false, FailReason: "entity_mismatch"}
	}
	if ls.StartBucket == nil || rs.StartBucket == nil {
		return GateResult{Passed: false, FailReason: "missing_start_bucket"}
	}
	diff := ls.StartBucket.Sub(*rs.StartBucket)
	if diff < 0 {
		diff = -diff
	}
	if diff > 30*time.Minute {
		return GateResult{Passed: false, FailReason: "bucket_too_far"}
	}
	return GateResult{Passed: true}
}

func (p CryptoIntradayPipeline) Score(left, right MarketWithSignals) *ScoreOutcome {
	if !p.CheckHardGates(left, right).Passed {
		return nil
	}
	ls := left.Signals.(domain.CryptoIntradaySignals)
	rs := right.Signals.(domain.CryptoIntradaySignals)
	result := scoring.ScoreCrypto(ls.CryptoSignals, rs.CryptoSignals)
	tier := domain.TierWeak
	if result.Score >= 0.75 {
		tier = domain.TierStrong
	}
	return &ScoreOutcome{Score: result.Score, Reason: result.Reason(), Tier: tier, Components: result.Components}
}

func (p CryptoIntradayPipeline) ShouldAutoConfirm(left, right MarketWithSignals, outcome ScoreOutcome) AutoConfirmVerdict {
	return AutoConfirmVerdict{}
}

func (p CryptoIntradayPipeline) ShouldAutoReject(left, right MarketWithSignals, outcome ScoreOutcome) AutoRejectVerdict {
	if outcome.Score < 0.55 {
		return AutoRejectVerdict{ShouldReject: true, Rule: "score_floor", Reason: "below intraday floor"}
	}
	return AutoRejectVerdict{}
}
