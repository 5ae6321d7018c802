package converter

// IdempotentResponseRedisModel — ответ, сохранённый в Redis в формате JSON.
type IdempotentResponseRedisModel struct {
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}
