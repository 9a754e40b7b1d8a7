// Package seed fills an empty store with sample records so the query UI
// has data to show on first start.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/lograca/lograca/internal/model"
)

// Store is the storage surface needed for seeding.
type Store interface {
	CountAll(ctx context.Context) (int64, error)
	Insert(ctx context.Context, rec *model.LogRecord) error
}

const recordsPerService = 20

var sampleMessages = map[string]map[model.Level]string{
	"dns-service": {
		model.LevelError:    "DNS解析失败",
		model.LevelWarn:     "DNS服务器超时",
		model.LevelCritical: "无效的DNS响应",
	},
	"http-service": {
		model.LevelError:    "HTTP 404错误",
		model.LevelWarn:     "HTTP 500内部服务器错误",
		model.LevelCritical: "HTTP请求超时",
	},
	"ftp-service": {
		model.LevelError:    "FTP连接失败",
		model.LevelWarn:     "FTP权限被拒绝",
		model.LevelCritical: "FTP传输中断",
	},
	"smtp-service": {
		model.LevelError:    "SMTP身份验证失败",
		model.LevelWarn:     "SMTP队列积压",
		model.LevelCritical: "SMTP连接被拒绝",
	},
	model.CatchAllService: {
		model.LevelError:    "计算节点调度失败",
		model.LevelWarn:     "实例状态同步延迟",
		model.LevelCritical: "虚拟机创建超时",
	},
}

// seedLevels are the levels sampled for generated records.
var seedLevels = []model.Level{model.LevelError, model.LevelWarn, model.LevelCritical}

// Run generates sample records when the store is empty. A non-empty
// store is left untouched.
func Run(ctx context.Context, store Store, logger zerolog.Logger) error {
	count, err := store.CountAll(ctx)
	if err != nil {
		return fmt.Errorf("count records: %w", err)
	}
	if count > 0 {
		logger.Debug().Int64("count", count).Msg("store not empty, skipping seed")
		return nil
	}

	inserted := 0
	now := time.Now()
	for service, messages := range sampleMessages {
		for i := 0; i < recordsPerService; i++ {
			level := seedLevels[rand.Intn(len(seedLevels))]
			rec := model.LogRecord{
				Timestamp: now.Add(-time.Duration(rand.Int63n(int64(7 * 24 * time.Hour)))),
				Service:   service,
				Level:     level,
				Message:   messages[level],
				Summary:   fmt.Sprintf("%s出现%s级别异常", service, level),
				Metadata:  map[string]any{model.MetaSource: "seed"},
			}
			if err := store.Insert(ctx, &rec); err != nil {
				return fmt.Errorf("insert seed record: %w", err)
			}
			inserted++
		}
	}
	logger.Info().Int("inserted", inserted).Msg("seeded sample records")
	return nil
}
