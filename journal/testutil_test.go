package journal

import (
	"time"
)

var t0 = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

func sampleEntries() []Entry {
	return []Entry{
		{ID: "01A", Time: t0, Symbol: "BTC-USDT", Action: OpenLong, Price: 100, Amount: 1, Tag: "ma_cross", Equity: 1000},
		{ID: "01B", Time: t0.Add(time.Hour), Symbol: "BTC-USDT", Action: CloseLong, Price: 110, Amount: 1, Tag: "reverse", RealizedPnL: 9.895, Equity: 1009.895},
		{ID: "01C", Time: t0.Add(time.Hour), Symbol: "BTC-USDT", Action: OpenShort, Price: 110, Amount: 1, Tag: "reverse", Equity: 1009.895},
		{ID: "01D", Time: t0.Add(2 * time.Hour), Symbol: "BTC-USDT", Action: CloseShort, Price: 115, Amount: 1, Tag: "stop-loss", RealizedPnL: -5.1125, Equity: 1004.7825},
		{ID: "01E", Time: t0.Add(3 * time.Hour), Symbol: "ETH-USDT", Action: OpenLong, Price: 50, Amount: 2, Tag: "ma_cross", Equity: 1004.7825},
		{ID: "01F", Time: t0.Add(4 * time.Hour), Symbol: "ETH-USDT", Action: CloseLong, Price: 50, Amount: 2, Tag: "take-profit", RealizedPnL: 0, Equity: 1004.7825},
	}
}
