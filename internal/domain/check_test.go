package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeResultsObject(t *testing.T) {
	raw := RawResults(`{
		"botBlockers": {"status": "completed", "blockers": ["cloudflare"]},
		"crawlStatus": {"status": "in_progress"}
	}`)

	results := DecodeResults(raw)
	require.Len(t, results, 2)

	blockers, ok := results[CheckBotBlockers].(BotBlockersResult)
	require.True(t, ok)
	assert.Equal(t, CheckStatusCompleted, blockers.Status)
	assert.Equal(t, []string{"cloudflare"}, blockers.Blockers)

	crawl, ok := results[CheckCrawlStatus].(CrawlStatusResult)
	require.True(t, ok)
	assert.Equal(t, CheckStatusInProgress, crawl.Status)
}

func TestDecodeResultsDoubleEncodedString(t *testing.T) {
	// The workflow engine sometimes writes the object JSON-encoded as a string.
	raw := RawResults(`"{\"clientUsage\": {\"status\": \"completed\", \"clients\": [\"acme\"]}}"`)

	results := DecodeResults(raw)
	require.Len(t, results, 1)

	usage, ok := results[CheckClientUsage].(ClientUsageResult)
	require.True(t, ok)
	assert.Equal(t, CheckStatusCompleted, usage.Status)
	assert.Equal(t, []string{"acme"}, usage.Clients)
}

func TestDecodeResultsMalformed(t *testing.T) {
	for _, raw := range []RawResults{
		nil,
		RawResults(``),
		RawResults(`not json at all`),
		RawResults(`"a string that is not an object"`),
		RawResults(`42`),
	} {
		results := DecodeResults(raw)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	}
}

func TestDecodeResultsUnknownCheckFallsBack(t *testing.T) {
	raw := RawResults(`{"futureCheck": {"status": "completed", "extra": "value"}}`)

	results := DecodeResults(raw)
	require.Len(t, results, 1)

	generic, ok := results["futureCheck"].(GenericResult)
	require.True(t, ok)
	assert.Equal(t, CheckStatusCompleted, generic.Status)
	assert.Equal(t, "value", generic.Fields["extra"])
	assert.NotContains(t, generic.Fields, "status")
}

func TestProgress(t *testing.T) {
	assert.Equal(t, 0, CheckResults{}.Progress())

	results := CheckResults{
		CheckBotBlockers: BotBlockersResult{Status: CheckStatusCompleted},
		CheckCrawlStatus: CrawlStatusResult{Status: CheckStatusInProgress},
	}
	assert.Equal(t, 50, results.Progress())

	results[CheckCrawlStatus] = CrawlStatusResult{Status: CheckStatusCompleted}
	assert.Equal(t, 100, results.Progress())

	// 1 of 3 rounds to 33, 2 of 3 to 67.
	results[CheckClientUsage] = ClientUsageResult{Status: CheckStatusPending}
	assert.Equal(t, 67, results.Progress())
}

func TestMergeKeepsCompletedEntries(t *testing.T) {
	current := CheckResults{
		CheckBotBlockers: BotBlockersResult{Status: CheckStatusCompleted, Blockers: []string{"datadome"}},
		CheckCrawlStatus: CrawlStatusResult{Status: CheckStatusInProgress},
	}
	incoming := CheckResults{
		// A stale partial payload must not downgrade a completed check.
		CheckBotBlockers: BotBlockersResult{Status: CheckStatusInProgress},
		CheckCrawlStatus: CrawlStatusResult{Status: CheckStatusCompleted, Crawl360: "ok"},
	}

	merged := current.Merge(incoming)
	require.Len(t, merged, 2)

	blockers := merged[CheckBotBlockers].(BotBlockersResult)
	assert.Equal(t, CheckStatusCompleted, blockers.Status)
	assert.Equal(t, []string{"datadome"}, blockers.Blockers)

	crawl := merged[CheckCrawlStatus].(CrawlStatusResult)
	assert.Equal(t, CheckStatusCompleted, crawl.Status)
	assert.Equal(t, "ok", crawl.Crawl360)
}

func TestMergeKeepsAbsentEntries(t *testing.T) {
	current := CheckResults{
		CheckDomainProfile: DomainProfileResult{Status: CheckStatusCompleted, Country: "FR"},
	}
	incoming := CheckResults{
		CheckClientUsage: ClientUsageResult{Status: CheckStatusInProgress},
	}

	merged := current.Merge(incoming)
	require.Len(t, merged, 2)
	assert.Contains(t, merged, CheckDomainProfile)
	assert.Contains(t, merged, CheckClientUsage)
}

func TestEncodeRoundTrip(t *testing.T) {
	results := CheckResults{
		CheckEcommercePlatform: EcommercePlatformResult{Status: CheckStatusCompleted, Platform: "shopify"},
	}

	decoded := DecodeResults(results.Encode())
	require.Len(t, decoded, 1)
	platform := decoded[CheckEcommercePlatform].(EcommercePlatformResult)
	assert.Equal(t, "shopify", platform.Platform)
}

func TestCheckStatusTerminal(t *testing.T) {
	assert.False(t, CheckStatusPending.Terminal())
	assert.False(t, CheckStatusInProgress.Terminal())
	assert.True(t, CheckStatusCompleted.Terminal())
	assert.True(t, CheckStatusError.Terminal())
}

func TestTaskActive(t *testing.T) {
	assert.True(t, (&Task{Status: CheckStatusPending}).Active())
	assert.True(t, (&Task{Status: CheckStatusInProgress}).Active())
	assert.False(t, (&Task{Status: CheckStatusCompleted}).Active())
	assert.False(t, (&Task{Status: CheckStatusError}).Active())
}
