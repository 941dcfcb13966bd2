package activity

import "time"

// SearchStub одна запись для любого непустого запроса.
func SearchStub(now time.Time, params map[string]any) []Record {
	return []Record{{
		"uuid":       "248959df-3079-4947-b847-9e0892d1bab4",
		"handle":     "Andrew Brown",
		"message":    "Cloud is fun!",
		"created_at": now.Format(time.RFC3339),
	}}
}

// HomeStub демонстрационная лента. Для вошедшего пользователя первой идет
// дополнительная запись.
func HomeStub(now time.Time, params map[string]any) []Record {
	const day = 24 * time.Hour
	ts := func(d time.Duration) string { return now.Add(d).Format(time.RFC3339) }

	records := []Record{
		{
			"uuid":          "68f126b0-1ceb-4a33-88be-d90fa7109eee",
			"handle":        "Andrew Brown",
			"message":       "Cloud is very fun!",
			"created_at":    ts(-2 * day),
			"expires_at":    ts(5 * day),
			"likes_count":   5,
			"replies_count": 1,
			"reposts_count": 0,
			"replies": []Record{{
				"uuid":                   "26e12864-1c26-5c3a-9658-97a10f8fea67",
				"reply_to_activity_uuid": "68f126b0-1ceb-4a33-88be-d90fa7109eee",
				"handle":                 "Worf",
				"message":                "This post has no honor!",
				"likes_count":            0,
				"replies_count":          0,
				"reposts_count":          0,
				"created_at":             ts(-2 * day),
			}},
		},
		{
			"uuid":       "66e12864-8c26-4c3a-9658-95a10f8fea67",
			"handle":     "Worf",
			"message":    "I am out of prune juice",
			"created_at": ts(-7 * day),
			"expires_at": ts(9 * day),
			"likes":      0,
			"replies":    []Record{},
		},
		{
			"uuid":       "248959df-3079-4947-b847-9e0892d1bab4",
			"handle":     "Garek",
			"message":    "My dear doctor, I am just simple tailor",
			"created_at": ts(-1 * time.Hour),
			"expires_at": ts(12 * time.Hour),
			"likes":      0,
			"replies":    []Record{},
		},
	}

	if id, _ := params[ParamCognitoUserID].(string); id != "" {
		lore := Record{
			"uuid":       "248959df-3079-4947-b847-9e0892d1bab4",
			"handle":     "Lore",
			"message":    "My dear brother, it the humans that are the problem",
			"created_at": ts(-1 * time.Hour),
			"expires_at": ts(12 * time.Hour),
			"likes":      1042,
			"replies":    []Record{},
		}
		records = append([]Record{lore}, records...)
	}
	return records
}
