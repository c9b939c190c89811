// Package normalize turns upstream replies of unpredictable shape into a
// tagged classification the chat layer can render. Inputs may be a parsed
// object carrying a recommendations array, a bare array of offers, a string
// of valid or partially corrupted JSON, or JSON-like fragments embedded in
// prose. Nothing in this package panics or returns an error; exhaustion of
// every fallback degrades to KindNoValidData.
package normalize

import (
	"encoding/json"
	"regexp"
	"strings"

	"buschat/internal/domain/models"
)

// Kind classifies what a reply turned out to be.
type Kind string

const (
	// KindOffers means a non-empty canonical offer list was recovered.
	KindOffers Kind = "offers"
	// KindEmpty is the terminal, non-error "search found nothing" state.
	KindEmpty Kind = "empty"
	// KindCancellation is a cancellation record / policy card.
	KindCancellation Kind = "cancellation"
	// KindTicket is a ticket summary card.
	KindTicket Kind = "ticket"
	// KindNoValidData means no structure could be recovered. Non-fatal; the
	// caller renders Text when present, otherwise an empty state.
	KindNoValidData Kind = "no_valid_data"
)

// Result is the outcome of classification. Passengers and Discounts are side
// channels captured whenever the reply carries them, regardless of Kind.
type Result struct {
	Kind         Kind
	Offers       []models.BusOffer
	Cancellation *models.CancellationRecord
	Ticket       *models.TicketSummary
	Text         string
	Passengers   []models.Passenger
	Discounts    *models.DiscountInstruments
}

var emptyRecommendations = regexp.MustCompile(`"recommendations"\s*:\s*\[\s*\]`)

// ClassifyRaw decodes raw reply bytes and classifies the value. Invalid JSON
// is handled as a string so the salvage paths still apply.
func ClassifyRaw(raw []byte) Result {
	if len(raw) == 0 {
		return Result{Kind: KindNoValidData}
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Classify(string(raw))
	}
	return Classify(v)
}

// Classify applies the priority-ordered match from the most structured shape
// down to field-by-field salvage.
func Classify(v any) Result {
	switch t := v.(type) {
	case map[string]any:
		return classifyObject(t, "")
	case []any:
		return classifyArray(t, Result{})
	case string:
		return classifyString(t)
	case json.RawMessage:
		return ClassifyRaw(t)
	case []byte:
		return ClassifyRaw(t)
	default:
		return Result{Kind: KindNoValidData}
	}
}

func classifyObject(obj map[string]any, rawText string) Result {
	res := Result{Kind: KindNoValidData, Text: rawText}
	captureSideChannels(obj, &res)

	if recs, ok := obj["recommendations"]; ok {
		if arr, ok := recs.([]any); ok {
			if len(arr) == 0 {
				res.Kind = KindEmpty
				return res
			}
			if hasTripID(arr[0]) {
				return decodeOffers(arr, res)
			}
		}
	}

	if rec, ok := decodeCancellation(obj); ok {
		res.Kind = KindCancellation
		res.Cancellation = rec
		return res
	}
	if sum, ok := decodeTicket(obj); ok {
		res.Kind = KindTicket
		res.Ticket = sum
		return res
	}

	// No recommendations key: take the first property that is an array of
	// trip-id elements. Backends have been seen nesting the list under ad
	// hoc keys ("data", "buses", ...).
	for _, key := range sortedKeys(obj) {
		if arr, ok := obj[key].([]any); ok && len(arr) > 0 && hasTripID(arr[0]) {
			return decodeOffers(arr, res)
		}
	}

	if res.Text == "" {
		res.Text = textField(obj)
	}
	return res
}

func classifyArray(arr []any, res Result) Result {
	res.Kind = KindNoValidData
	if len(arr) > 0 && hasTripID(arr[0]) {
		return decodeOffers(arr, res)
	}
	return res
}

func classifyString(s string) Result {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Result{Kind: KindNoValidData}
	}

	// Empty-result literal embedded anywhere in the string is terminal.
	if emptyRecommendations.MatchString(trimmed) {
		return Result{Kind: KindEmpty, Text: s}
	}

	// Side channels (passengers, discounts) captured while classifying an
	// embedded object survive even when no renderable payload is found.
	fallback := Result{Kind: KindNoValidData, Text: s}

	if strings.ContainsAny(trimmed, "{[") {
		var v any
		if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
			if frag, ok := extractBalanced(trimmed); ok {
				if err := json.Unmarshal([]byte(frag), &v); err != nil {
					v = nil
				}
			}
		}
		switch t := v.(type) {
		case map[string]any:
			res := classifyObject(t, s)
			if res.Kind != KindNoValidData {
				return res
			}
			fallback = res
		case []any:
			res := classifyArray(t, Result{Text: s})
			if res.Kind != KindNoValidData {
				return res
			}
			fallback = res
		}
	}

	if strings.Contains(trimmed, tripIDMarker) || strings.Contains(trimmed, "tripId") {
		if offer, ok := salvageOffer(trimmed); ok {
			return Result{
				Kind:       KindOffers,
				Offers:     []models.BusOffer{offer},
				Text:       s,
				Passengers: fallback.Passengers,
				Discounts:  fallback.Discounts,
			}
		}
	}

	return fallback
}

// decodeOffers remarshals loosely typed elements into canonical offers.
// Elements that fail to decode are skipped rather than failing the batch.
func decodeOffers(arr []any, res Result) Result {
	offers := make([]models.BusOffer, 0, len(arr))
	for _, el := range arr {
		em, ok := el.(map[string]any)
		if !ok {
			continue
		}
		data, err := json.Marshal(em)
		if err != nil {
			continue
		}
		var offer models.BusOffer
		if err := json.Unmarshal(data, &offer); err != nil {
			// Strict decode failed (e.g. the trip id arrived as a numeric
			// string). Recover the itinerary fields individually instead
			// of dropping the element.
			id := tripIDOf(em)
			if id == 0 {
				continue
			}
			offer = minimalOffer(em, id)
		}
		if offer.TripID == 0 {
			offer.TripID = tripIDOf(em)
		}
		canonicalizeOffer(&offer)
		offers = append(offers, offer)
	}
	if len(offers) == 0 {
		res.Kind = KindNoValidData
		return res
	}
	res.Kind = KindOffers
	res.Offers = offers
	return res
}

// canonicalizeOffer enforces the tier invariant: only the three known tier
// names survive, and only when they actually hold seats.
func canonicalizeOffer(offer *models.BusOffer) {
	if offer.Tiers == nil {
		return
	}
	tiers := make(map[string]models.SeatGroup, len(offer.Tiers))
	for _, name := range models.TierOrder {
		if group, ok := offer.Tiers[name]; ok && !group.Empty() {
			tiers[name] = group
		}
	}
	if len(tiers) == 0 {
		offer.Tiers = nil
		return
	}
	offer.Tiers = tiers
}

func decodeCancellation(obj map[string]any) (*models.CancellationRecord, bool) {
	if _, ok := obj["cancellationPolicy"]; !ok {
		if _, ok := obj["refundableAmount"]; !ok {
			return nil, false
		}
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return nil, false
	}
	var rec models.CancellationRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, false
	}
	return &rec, true
}

func decodeTicket(obj map[string]any) (*models.TicketSummary, bool) {
	if nested, ok := obj["ticket"].(map[string]any); ok {
		obj = nested
	} else if _, ok := obj["ticketNumber"]; !ok {
		return nil, false
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return nil, false
	}
	var sum models.TicketSummary
	if err := json.Unmarshal(data, &sum); err != nil {
		return nil, false
	}
	if sum.TicketNo == "" && sum.OrderID == "" {
		return nil, false
	}
	return &sum, true
}

// captureSideChannels lifts passenger and discount data accompanying a reply
// so booking forms can reuse them, whatever the reply classified as.
func captureSideChannels(obj map[string]any, res *Result) {
	if raw, ok := obj["passengers"].([]any); ok && len(raw) > 0 {
		if data, err := json.Marshal(raw); err == nil {
			var ps []models.Passenger
			if err := json.Unmarshal(data, &ps); err == nil && len(ps) > 0 {
				res.Passengers = ps
			}
		}
	}

	var inst models.DiscountInstruments
	found := false
	if coins, ok := numberField(obj, "coins"); ok {
		inst.Coins = int(coins)
		found = true
	}
	for _, key := range []string{"card", "promoCard"} {
		if cm, ok := obj[key].(map[string]any); ok {
			if data, err := json.Marshal(cm); err == nil {
				var card models.PromoCard
				if err := json.Unmarshal(data, &card); err == nil {
					inst.Card = &card
					found = true
					break
				}
			}
		}
	}
	if found {
		res.Discounts = &inst
	}
}

// minimalOffer rebuilds the itinerary fields one by one for an element the
// strict decoder rejected.
func minimalOffer(obj map[string]any, id int64) models.BusOffer {
	offer := models.BusOffer{TripID: id}
	if s, ok := obj["origin"].(string); ok {
		offer.Origin = s
	}
	if s, ok := obj["destination"].(string); ok {
		offer.Destination = s
	}
	if s, ok := obj["startTime"].(string); ok {
		offer.StartTime = s
	}
	if s, ok := obj["endTime"].(string); ok {
		offer.EndTime = s
	}
	if s, ok := obj["duration"].(string); ok {
		offer.Duration = s
	}
	if f, ok := numberField(obj, "rating"); ok {
		offer.Rating = f
	}
	return offer
}

func textField(obj map[string]any) string {
	for _, key := range []string{"answer", "message", "text", "response"} {
		if s, ok := obj[key].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func numberField(obj map[string]any, key string) (float64, bool) {
	switch n := obj[key].(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
