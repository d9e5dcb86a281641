package strategy

import (
	"equity-advisor/internal/dto"
	"fmt"
)

// ManageOpenTrades checks every open trade against the current bar's close
// and returns the trades still open alongside the ones closed by a stop or
// target. Trailing stops only tighten, never loosen.
func ManageOpenTrades(cfg Config, open []*dto.Trade, price float64, ts int64) (stillOpen, closed []*dto.Trade) {
	for _, trade := range open {
		switch {
		case trade.StopLoss > 0 && hitStop(trade, price):
			CloseTrade(trade, price, ts, fmt.Sprintf("Stop loss hit (%.2f)", trade.StopLoss))
			closed = append(closed, trade)

		case trade.TakeProfit > 0 && hitTarget(trade, price):
			CloseTrade(trade, price, ts, fmt.Sprintf("Take profit hit (%.2f)", trade.TakeProfit))
			closed = append(closed, trade)

		default:
			if cfg.TrailingStopPct > 0 && trade.Direction == dto.SignalBuy {
				newStop := price * (1 - cfg.TrailingStopPct/100)
				if trade.StopLoss == 0 || newStop > trade.StopLoss {
					trade.StopLoss = newStop
				}
			}
			stillOpen = append(stillOpen, trade)
		}
	}
	return stillOpen, closed
}

func hitStop(trade *dto.Trade, price float64) bool {
	if trade.Direction == dto.SignalBuy {
		return price <= trade.StopLoss
	}
	return price >= trade.StopLoss
}

func hitTarget(trade *dto.Trade, price float64) bool {
	if trade.Direction == dto.SignalBuy {
		return price >= trade.TakeProfit
	}
	return price <= trade.TakeProfit
}

// CloseTrade finalizes a trade at the given exit price and records realized
// profit. Short profit is the mirror of long profit.
func CloseTrade(trade *dto.Trade, price float64, ts int64, reason string) {
	trade.ExitDate = ts
	trade.ExitPrice = price
	trade.Reason = reason

	if trade.Direction == dto.SignalBuy {
		trade.ProfitLoss = (price - trade.EntryPrice) * trade.Size
		if trade.EntryPrice != 0 {
			trade.ProfitLossPct = (price/trade.EntryPrice - 1) * 100
		}
	} else {
		trade.ProfitLoss = (trade.EntryPrice - price) * trade.Size
		if price != 0 {
			trade.ProfitLossPct = (trade.EntryPrice/price - 1) * 100
		}
	}
}
