package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(forumCallsTotal, searchCacheTotal) }

var forumCallsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "forum_api_calls_total",
		Help: "Outgoing forum API calls, labeled by endpoint and outcome.",
	},
	[]string{"endpoint", "success"}, // endpoint: 'search', 'recent', 'token'
)

var searchCacheTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "search_cache_total",
		Help: "Search page cache lookups, labeled hit/miss.",
	},
	[]string{"result"},
)

func IncForumCall(endpoint string, success bool) {
	forumCallsTotal.WithLabelValues(endpoint, strconv.FormatBool(success)).Inc()
}

func IncSearchCache(hit bool) {
	if hit {
		searchCacheTotal.WithLabelValues("hit").Inc()
	} else {
		searchCacheTotal.WithLabelValues("miss").Inc()
	}
}
