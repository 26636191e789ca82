package polymarket

import "time"

// 通用预测市场类型定义，独立于具体的数据源接口
// Gamma API 负责市场发现，CLOB API 负责实时价格

// Side 持仓方向（买入 YES 份额或 NO 份额）
type Side string

const (
	SideYes Side = "YES"
	SideNo  Side = "NO"
)

// String 方法用于日志输出
func (s Side) String() string {
	return string(s)
}

// Market 单个预测市场
type Market struct {
	ID         string    `json:"id"`          // Gamma 市场ID
	Question   string    `json:"question"`    // 市场问题文本
	YesPrice   float64   `json:"yes_price"`   // YES 价格（0-1，即隐含概率）
	NoPrice    float64   `json:"no_price"`    // NO 价格（0-1）
	Volume     float64   `json:"volume"`      // 成交量（USD）
	ResolvesAt time.Time `json:"resolves_at"` // 结算时间，零值表示未知
	YesTokenID string    `json:"yes_token_id"`
	NoTokenID  string    `json:"no_token_id"`
}

// TokenID 返回指定方向对应的 CLOB token
func (m *Market) TokenID(side Side) string {
	if side == SideNo {
		return m.NoTokenID
	}
	return m.YesTokenID
}

// Price 返回指定方向的买入价格
func (m *Market) Price(side Side) float64 {
	if side == SideNo {
		return m.NoPrice
	}
	return m.YesPrice
}
