package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus-метрики доменных операций.
var (
	likesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fm_likes_total",
		Help: "Количество успешных операций с лайками.",
	}, []string{"op"})

	friendshipsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fm_friendships_total",
		Help: "Количество успешных операций с дружбой.",
	}, []string{"op"})

	catalogCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fm_catalog_cache_hits_total",
		Help: "Попадания в LRU-кэш справочников.",
	}, []string{"catalog"})

	catalogCacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fm_catalog_cache_misses_total",
		Help: "Промахи LRU-кэша справочников.",
	}, []string{"catalog"})
)
