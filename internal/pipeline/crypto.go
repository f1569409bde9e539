package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sawpanic/marketlink/internal/domain"
	"github.com/sawpanic/marketlink/internal/extract"
	"github.com/sawpanic/marketlink/internal/scoring"
)

const cryptoAlgoVersion = "crypto_daily@1.0.0:CRYPTO_DAILY"

var cryptoTitleKeywords = []string{
	"bitcoin", "btc", "ethereum", "eth", "solana", "sol", "xrp", "dogecoin",
	"cardano", "polkadot", "litecoin", "chainlink", "avalanche", "polygon",
}

// CryptoPipeline implements the CRYPTO_DAILY topic (spec.md §4.9).
type CryptoPipeline struct{}

func (CryptoPipeline) Topic() domain.Topic { return domain.TopicCryptoDaily }
func (CryptoPipeline) AlgoVersion() string { return cryptoAlgoVersion }
func (CryptoPipeline) SupportsAutoConfirm() bool { return true }
func (CryptoPipeline) SupportsAutoReject() bool { return true }

func (p CryptoPipeline) Fetch(ctx context.Context, repo domain.MarketRepository, opts FetchOptions) ([]MarketWithSignals, error) {
	return fetchAndExtract(ctx, repo, opts, cryptoTitleKeywords, func(m domain.Market, now time.Time) domain.Signals {
		return extract.ExtractCrypto(m, now)
	})
}

func (p CryptoPipeline) BuildIndex(markets []MarketWithSignals) map[string][]MarketWithSignals {
	index := make(map[string][]MarketWithSignals)
	for _, mws := range markets {
		sig, ok := mws.Signals.(domain.CryptoSignals)
		if !ok {
			continue
		}
		key := cryptoBlockingKey(sig)
		index[key] = append(index[key], mws)
	}
	return index
}

func cryptoBlockingKey(sig domain.CryptoSignals) string {
	entity := ""
	if sig.Entity != nil {
		entity = *sig.Entity
	}
	return entity + "|" + sig.PeriodKey
}

func (p CryptoPipeline) FindCandidates(left MarketWithSignals, index map[string][]MarketWithSignals) []MarketWithSignals {
	sig, ok := left.Signals.(domain.CryptoSignals)
	if !ok {
		return nil
	}
	key := cryptoBlockingKey(sig)
	if cands, ok := index[key]; ok && len(cands) > 0 {
		return cands
	}
	// Fall back to entity-only blocking when the strict entity|period key
	// yields nothing, e.g. close-time-only right side with no title date.
	entity := ""
	if sig.Entity != nil {
		entity = *sig.Entity
	}
	var fallback []MarketWithSignals
	for k, cands := range index {
		if len(k) > len(entity) && k[:len(entity)+1] == entity+"|" {
			fallback = append(fallback, cands...)
		}
	}
	return fallback
}

func (p CryptoPipeline) CheckHardGates(left, right MarketWithSignals) GateResult {
	ls, lok := left.Signals.(domain.CryptoSignals)
	rs, rok := right.Signals.(domain.CryptoSignals)
	if !lok || !rok {
		return GateResult{Passed: false, FailReason: "signals_type_mismatch"}
	}
	if ls.Entity == nil || rs.Entity == nil || *ls.Entity != *rs.Entity {
		return GateResult{Passed: false, FailReason: "entity_mismatch"}
	}
	return GateResult{Passed: true}
}

func (p CryptoPipeline) Score(left, right MarketWithSignals) *ScoreOutcome {
	gate := p.CheckHardGates(left, right)
	if !gate.Passed {
		return nil
	}
	ls := left.Signals.(domain.CryptoSignals)
	rs := right.Signals.(domain.CryptoSignals)
	result := scoring.ScoreCrypto(ls, rs)
	tier := domain.TierWeak
	if result.Score >= 0.75 {
		tier = domain.TierStrong
	}
	return &ScoreOutcome{Score: result.Score, Reason: result.Reason(), Tier: tier, Components: result.Components}
}

func (p CryptoPipeline) ShouldAutoConfirm(left, right MarketWithSignals, outcome ScoreOutcome) AutoConfirmVerdict {
	ls := left.Signals.(domain.CryptoSignals)
	rs := right.Signals.(domain.CryptoSignals)

	entityExact := ls.Entity != nil && rs.Entity != nil && *ls.Entity == *rs.Entity
	bothDayExact := ls.DateType == domain.DateDayExact && rs.DateType == domain.DateDayExact
	sameSettleDate := ls.SettleDate != nil && rs.SettleDate != nil && ls.SettleDate.Equal(*rs.SettleDate)
	comparatorsEqual := ls.Comparator == rs.Comparator && ls.Comparator != domain.ComparatorUnknown
	numbersCompatible := outcome.Components["number"] >= 0.9
	textSane := outcome.Components["text"] >= 0.12
	requiredFieldsPresent := ls.Threshold != nil && rs.Threshold != nil

	if entityExact && bothDayExact && sameSettleDate && comparatorsEqual && numbersCompatible && textSane && requiredFieldsPresent {
		return AutoConfirmVerdict{ShouldConfirm: true, Rule: "crypto_exact_pair", Confidence: 0.97}
	}
	return AutoConfirmVerdict{}
}

func (p CryptoPipeline) ShouldAutoReject(left, right MarketWithSignals, outcome ScoreOutcome) AutoRejectVerdict {
	ls := left.Signals.(domain.CryptoSignals)
	rs := right.Signals.(domain.CryptoSignals)

	if outcome.Score < 0.55 {
		return AutoRejectVerdict{ShouldReject: true, Rule: "score_floor", Reason: fmt.Sprintf("score %.3f below floor 0.55", outcome.Score)}
	}
	if ls.Comparator == domain.ComparatorGE && rs.Comparator == domain.ComparatorLE ||
		ls.Comparator == domain.ComparatorLE && rs.Comparator == domain.ComparatorGE {
		return AutoRejectVerdict{ShouldReject: true, Rule: "CONFLICTING_COMPARATOR", Reason: "comparators are opposite"}
	}
	return AutoRejectVerdict{}
}
