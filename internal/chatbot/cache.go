package chatbot

import "sync"

// answerCache remembers looked-up answers by normalized question. When full,
// the oldest entry is evicted.
type answerCache struct {
	mu    sync.Mutex
	max   int
	items map[string]string
	order []string
}

func newAnswerCache(max int) *answerCache {
	return &answerCache{max: max, items: make(map[string]string)}
}

func (c *answerCache) get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *answerCache) set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[key]; !ok {
		if c.max > 0 && len(c.order) >= c.max {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.items, oldest)
		}
		c.order = append(c.order, key)
	}
	c.items[key] = value
}

func (c *answerCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]string)
	c.order = nil
}

func (c *answerCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
