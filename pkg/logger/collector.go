package logger

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Publisher is the transport the collector flushes aggregated logs through.
type Publisher interface {
	PublishMessage(ctx context.Context, topic string, payload interface{}) error
}

type CollectionConfig struct {
	TimeInterval   time.Duration // flush interval
	CountThreshold int           // max unique logs before flush
	Topic          string        // topic to send aggregated logs
	Publisher      Publisher
}

type AggregatedLogEntry struct {
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields"`
	Caller    string                 `json:"caller"`
	Count     int                    `json:"count"`
	FirstSeen time.Time              `json:"first_seen"`
	LastSeen  time.Time              `json:"last_seen"`
}

// LogCollector deduplicates identical log entries and flushes them in
// batches, either on a timer or when the unique-entry threshold is hit.
type LogCollector struct {
	config *CollectionConfig
	logMap map[string]*AggregatedLogEntry
	mutex  sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewLogCollector(config *CollectionConfig) *LogCollector {
	ctx, cancel := context.WithCancel(context.Background())

	c := &LogCollector{
		config: config,
		logMap: make(map[string]*AggregatedLogEntry),
		ctx:    ctx,
		cancel: cancel,
	}

	c.wg.Add(1)
	go c.flushLoop()
	return c
}

func (c *LogCollector) AddLog(level, message string, fields map[string]interface{}, caller string) {
	key := c.hashKey(level, message, caller)
	now := time.Now()

	c.mutex.Lock()
	if entry, ok := c.logMap[key]; ok {
		entry.Count++
		entry.LastSeen = now
		c.mutex.Unlock()
		return
	}
	c.logMap[key] = &AggregatedLogEntry{
		Level:     level,
		Message:   message,
		Fields:    fields,
		Caller:    caller,
		Count:     1,
		FirstSeen: now,
		LastSeen:  now,
	}
	over := len(c.logMap) >= c.config.CountThreshold
	c.mutex.Unlock()

	if over {
		c.flush()
	}
}

func (c *LogCollector) flushLoop() {
	defer c.wg.Done()

	interval := c.config.TimeInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.flush()
		case <-c.ctx.Done():
			c.flush()
			return
		}
	}
}

func (c *LogCollector) flush() {
	c.mutex.Lock()
	if len(c.logMap) == 0 {
		c.mutex.Unlock()
		return
	}
	entries := make([]*AggregatedLogEntry, 0, len(c.logMap))
	for _, e := range c.logMap {
		entries = append(entries, e)
	}
	c.logMap = make(map[string]*AggregatedLogEntry)
	c.mutex.Unlock()

	if c.config.Publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = c.config.Publisher.PublishMessage(ctx, c.config.Topic, entries)
}

func (c *LogCollector) hashKey(level, message, caller string) string {
	payload, _ := json.Marshal([]string{level, message, caller})
	return fmt.Sprintf("%x", sha256.Sum256(payload))
}

func (c *LogCollector) Close() {
	c.cancel()
	c.wg.Wait()
}
