// ABOUTME: Source result models hold the raw per-source output of the discovery phase
// ABOUTME: Results stay in processing order so fold-in can reproduce discovery-time ordering

package domain

// Source identifiers for the built-in discovery sources
const (
	SourceHotelFofa     = "hotel_fofa"
	SourceMulticast     = "multicast"
	SourceHotelTonkiang = "hotel_tonkiang"
	SourceSubscribe     = "subscribe"
	SourceOnlineSearch  = "online_search"
	SourceFeed          = "feed"
)

// SourceResult is the raw output of one discovery source, keyed by channel name
type SourceResult map[string][]CandidateURL

// Count returns the number of candidates in the result
func (r SourceResult) Count() int {
	total := 0
	for _, candidates := range r {
		total += len(candidates)
	}
	return total
}

// Add appends a candidate for a channel name, tagging it with the source id
func (r SourceResult) Add(name, url, sourceID string) {
	if name == "" || url == "" {
		return
	}
	r[name] = append(r[name], CandidateURL{URL: url, SourceID: sourceID})
}

// SourceRecord is one coordinator step: which source ran and what it returned
type SourceRecord struct {
	SourceID string
	Result   SourceResult
}

// SourceResults holds one record per source kind, in the order sources were processed
type SourceResults struct {
	Records []SourceRecord
}

// Put stores the result for a source, replacing an earlier record for the same id
func (s *SourceResults) Put(sourceID string, result SourceResult) {
	if result == nil {
		result = SourceResult{}
	}
	for i := range s.Records {
		if s.Records[i].SourceID == sourceID {
			s.Records[i].Result = result
			return
		}
	}
	s.Records = append(s.Records, SourceRecord{SourceID: sourceID, Result: result})
}

// Get returns the result recorded for a source id
func (s SourceResults) Get(sourceID string) (SourceResult, bool) {
	for _, record := range s.Records {
		if record.SourceID == sourceID {
			return record.Result, true
		}
	}
	return nil, false
}
