package app

import "time"

func SetEnsureTimeout(q *QueryService, d time.Duration) { q.ensureTimeout = d }
