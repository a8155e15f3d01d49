package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/niaga-next/internal/constants"
)

// allowedTransitions 支付状态流转表。
// verified 为终态；rejected 可重开回 pending。
var allowedTransitions = map[string]map[string]bool{
	constants.PaymentStatusPending: {
		constants.PaymentStatusVerified: true,
		constants.PaymentStatusRejected: true,
	},
	constants.PaymentStatusRejected: {
		constants.PaymentStatusPending: true,
	},
}

// isTransitionAllowed 判断状态流转是否合法
func isTransitionAllowed(from, to string) bool {
	targets, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return targets[to]
}

// transitionSource 批量流转时目标状态对应的唯一来源状态
func transitionSource(target string) (string, bool) {
	switch target {
	case constants.PaymentStatusVerified, constants.PaymentStatusRejected:
		return constants.PaymentStatusPending, true
	case constants.PaymentStatusPending:
		return constants.PaymentStatusRejected, true
	default:
		return "", false
	}
}

// paymentStatusUpdates 生成状态流转的更新字段。
// verified/rejected 记录审核时间与审核人，重开回 pending 时清除。
func paymentStatusUpdates(target, adminName string, now time.Time) map[string]interface{} {
	updates := map[string]interface{}{
		"payment_status": target,
		"updated_at":     now,
	}
	switch target {
	case constants.PaymentStatusVerified, constants.PaymentStatusRejected:
		updates["verified_at"] = now
		updates["verified_by"] = adminName
	case constants.PaymentStatusPending:
		updates["verified_at"] = nil
		updates["verified_by"] = ""
	}
	return updates
}

// normalizePaymentStatus 清洗外部传入的状态值
func normalizePaymentStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

// uniqueIDs 去重并剔除零值ID，保持输入顺序
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func generateInvoiceNo(prefix string) string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("%s%s%s", prefix, now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
