package insight

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/growth_radar/app/screener/pkg/config"
	"github.com/iWorld-y/growth_radar/app/screener/pkg/logger"
)

const promptTpl = `Role: 资深成长股分析师
Context
输入数据：一份新上市成长股的筛选结果，包含筛选条件、各条件的定性评级和入选公司列表。
所有金额单位为百万日元，必要 CAGR 表示 5 年内市值达到 100 亿日元所需的年化增长率。

Instructions
请用 3-5 句话给出整体解读：入选公司的共同特征、条件组合是否现实、需要重点关注的风险。
直接输出纯文本，不要 markdown 标题。

筛选结果：
%s`

// Narrator 基于 LLM 生成筛选结果的定性解读
type Narrator struct {
	cm         model.BaseChatModel
	limiter    *rate.Limiter
	maxRetries int
	baseDelay  time.Duration
}

// NewNarrator 创建解读器
func NewNarrator(cm model.BaseChatModel, limiter *rate.Limiter) *Narrator {
	return &Narrator{
		cm:         cm,
		limiter:    limiter,
		maxRetries: 3,
		baseDelay:  2 * time.Second,
	}
}

// NewFromConfig 根据配置创建解读器，未配置 LLM 时返回 nil
func NewFromConfig(ctx context.Context, cfg *config.Config) (*Narrator, error) {
	if !cfg.LLM.Enabled() {
		return nil, nil
	}

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}

	limiter := NewLimiter(cfg.Concurrency)
	logger.Log.Infof("限流器已配置: Limit=%.2f req/s, Burst=%d", limiter.Limit(), limiter.Burst())
	return NewNarrator(chatModel, limiter), nil
}

// NewLimiter Limit 设置为 RPM/60，Burst 设置为 QPS；RPM 为 0 时不限流
func NewLimiter(c config.ConcurrencyConfig) *rate.Limiter {
	if c.RPM <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	burst := c.QPS
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(float64(c.RPM)/60.0), burst)
}

// Narrate 生成解读。遇到 429 时指数退避重试
func (n *Narrator) Narrate(ctx context.Context, content string) (string, error) {
	var lastErr error

	for i := 0; i <= n.maxRetries; i++ {
		if err := n.limiter.Wait(ctx); err != nil {
			return "", err
		}

		messages := []*schema.Message{
			{Role: schema.System, Content: "你是一个谨慎、客观的股票研究助理。"},
			{Role: schema.User, Content: fmt.Sprintf(promptTpl, content)},
		}

		resp, err := n.cm.Generate(ctx, messages)
		if err != nil {
			if isRateLimited(err) {
				lastErr = err
				if i < n.maxRetries {
					logger.Log.Warnf("LLM 限流，%v 后重试 (%d/%d)", n.baseDelay*time.Duration(1<<i), i+1, n.maxRetries)
					select {
					case <-ctx.Done():
						return "", ctx.Err()
					case <-time.After(n.baseDelay * time.Duration(1<<i)):
					}
					continue
				}
			}
			return "", err
		}

		text := strings.TrimSpace(resp.Content)
		if text == "" {
			lastErr = fmt.Errorf("empty completion")
			continue
		}
		return text, nil
	}
	return "", fmt.Errorf("failed after retries: %w", lastErr)
}

func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "too many requests")
}
