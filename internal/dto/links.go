package dto

import (
	"net/url"
	"strconv"

	"github.com/meetsy/feedback-service/internal/models"
)

// Responses carry relative links so clients can walk between a record, its
// collection and its aggregates without assembling URLs themselves.

const (
	profileCollectionPath = "/feedback/profile"
	appCollectionPath     = "/feedback/app"
)

func relativeURL(path string, q url.Values) string {
	if enc := q.Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}

func singleParam(key, value string) url.Values {
	q := url.Values{}
	q.Set(key, value)
	return q
}

func profileFeedbackLinks(m *models.ProfileFeedback) map[string]string {
	links := map[string]string{
		"self":       profileCollectionPath + "/" + m.ID.String(),
		"collection": profileCollectionPath,
		"reviewee_feedback": relativeURL(profileCollectionPath,
			singleParam("reviewee_profile_id", m.RevieweeProfileID.String())),
		"reviewer_feedback": relativeURL(profileCollectionPath,
			singleParam("reviewer_profile_id", m.ReviewerProfileID.String())),
		"stats": relativeURL(profileCollectionPath+"/stats",
			singleParam("reviewee_profile_id", m.RevieweeProfileID.String())),
	}
	if m.MatchID != nil {
		links["match_feedback"] = relativeURL(profileCollectionPath,
			singleParam("match_id", m.MatchID.String()))
	}
	return links
}

func appFeedbackLinks(m *models.AppFeedback) map[string]string {
	links := map[string]string{
		"self":       appCollectionPath + "/" + m.ID.String(),
		"collection": appCollectionPath,
		"stats":      appCollectionPath + "/stats",
	}
	if m.AuthorProfileID != nil {
		links["author_feedback"] = relativeURL(appCollectionPath,
			singleParam("author_profile_id", m.AuthorProfileID.String()))
	}
	return links
}

// overrideQuery copies the request query, dropping every key named in
// overrides and re-adding the ones with a non-nil value.
func overrideQuery(q url.Values, overrides map[string]*string) url.Values {
	out := url.Values{}
	for k, vs := range q {
		if _, skip := overrides[k]; skip {
			continue
		}
		out[k] = append([]string(nil), vs...)
	}
	for k, v := range overrides {
		if v != nil {
			out.Set(k, *v)
		}
	}
	return out
}

// CollectionLinks builds self/collection plus next/prev links in whichever
// pagination mode produced the page.
func CollectionLinks(path string, query url.Values, nextCursor, prevCursor *string, nextOffset, prevOffset *int) map[string]string {
	links := map[string]string{
		"self":       relativeURL(path, query),
		"collection": path,
	}
	if nextCursor != nil {
		links["next"] = relativeURL(path, overrideQuery(query,
			map[string]*string{"cursor": nextCursor, "offset": nil}))
	} else if nextOffset != nil {
		v := strconv.Itoa(*nextOffset)
		links["next"] = relativeURL(path, overrideQuery(query,
			map[string]*string{"offset": &v, "cursor": nil}))
	}
	if prevCursor != nil {
		links["prev"] = relativeURL(path, overrideQuery(query,
			map[string]*string{"cursor": prevCursor, "offset": nil}))
	} else if prevOffset != nil {
		v := strconv.Itoa(*prevOffset)
		links["prev"] = relativeURL(path, overrideQuery(query,
			map[string]*string{"offset": &v, "cursor": nil}))
	}
	return links
}

// StatsLinks points back at the stats resource and the listing serving the
// same filter set.
func StatsLinks(path string, query url.Values, relatedPath string) map[string]string {
	return map[string]string{
		"self":             relativeURL(path, query),
		"related_feedback": relativeURL(relatedPath, query),
	}
}
