package handlers

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/beescan/indexer/internal/events"
)

const testPairAddr = "0x2222222222222222222222222222222222222222"
const testTokenAddr = "0x1111111111111111111111111111111111111111"

func pairRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "address", "token0", "token1", "factory", "base_token_index", "block_number"}).
		AddRow(1, testPairAddr, "0xbb4cdb9cbd36b01bd1cbaebf2de08d9173bc095c", testTokenAddr, "0xfactory", 0, 100)
}

func tokenRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "address", "decimals", "block_number"}).
		AddRow(1, testTokenAddr, 18, 100)
}

func TestHandleSwap_SkipsUnknownPair(t *testing.T) {
	c, mock := newMockContext(t)
	mock.ExpectQuery("SELECT (.+) FROM `pairs`").WillReturnRows(sqlmock.NewRows([]string{"id", "address"}))

	ev := &events.Swap{Pair: testPairAddr, Sender: testPairAddr, To: testPairAddr}
	if err := c.HandleSwap(context.Background(), ev); err != nil {
		t.Fatalf("HandleSwap failed: %v", err)
	}
}

func TestHandleSwap_BuyIncrementsCountersOnGenuineInsert(t *testing.T) {
	c, mock := newMockContext(t)

	mock.ExpectQuery("SELECT (.+) FROM `pairs`").WillReturnRows(pairRow())
	mock.ExpectQuery("SELECT (.+) FROM `tokens`").WillReturnRows(tokenRow())
	mock.ExpectExec("INSERT INTO `swaps`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE `tokens`").WillReturnResult(sqlmock.NewResult(0, 1))

	ev := &events.Swap{
		Pair:        testPairAddr,
		Sender:      "0x4444444444444444444444444444444444444444",
		To:          "0x5555555555555555555555555555555555555555",
		Amount0In:   "0xde0b6b3a7640000", // 1 WBNB in (base in)
		Amount1Out:  "0x3635c9adc5dea00000", // 1000 tokens out
		BlockNumber: 101,
		TxHash:      "0xswaptx",
		LogIndex:    2,
	}
	if err := c.HandleSwap(context.Background(), ev); err != nil {
		t.Fatalf("HandleSwap failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSwapWallet_AlwaysUsesRecipientNeverSender(t *testing.T) {
	ev := &events.Swap{
		Sender: "0x4444444444444444444444444444444444444444",
		To:     "0x5555555555555555555555555555555555555555",
	}
	wallet, err := swapWallet(ev)
	if err != nil {
		t.Fatalf("swapWallet failed: %v", err)
	}
	if wallet != "0x5555555555555555555555555555555555555555" {
		t.Errorf("swapWallet = %s, want ev.To (sender must never be used as the trader wallet)", wallet)
	}
}

func TestHandleSwap_SellIncrementsCountersOnGenuineInsert(t *testing.T) {
	c, mock := newMockContext(t)

	mock.ExpectQuery("SELECT (.+) FROM `pairs`").WillReturnRows(pairRow())
	mock.ExpectQuery("SELECT (.+) FROM `tokens`").WillReturnRows(tokenRow())
	mock.ExpectExec("INSERT INTO `swaps`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE `tokens`").WillReturnResult(sqlmock.NewResult(0, 1))

	// amount1In (token in) + amount0Out (base out): a sell. Sender is the
	// router that relayed the trade; To is the actual trader and must end
	// up as Swap.wallet_address regardless (spec.md §3).
	ev := &events.Swap{
		Pair:        testPairAddr,
		Sender:      "0x4444444444444444444444444444444444444444",
		To:          "0x5555555555555555555555555555555555555555",
		Amount1In:   "0x3635c9adc5dea00000", // 1000 tokens in
		Amount0Out:  "0xde0b6b3a7640000",    // 1 WBNB out (base out)
		BlockNumber: 101,
		TxHash:      "0xswaptx",
		LogIndex:    2,
	}
	if err := c.HandleSwap(context.Background(), ev); err != nil {
		t.Fatalf("HandleSwap failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestHandleSwap_RedeliveredSwapSkipsCounterIncrement(t *testing.T) {
	c, mock := newMockContext(t)

	mock.ExpectQuery("SELECT (.+) FROM `pairs`").WillReturnRows(pairRow())
	mock.ExpectQuery("SELECT (.+) FROM `tokens`").WillReturnRows(tokenRow())
	mock.ExpectExec("INSERT INTO `swaps`").WillReturnResult(sqlmock.NewResult(0, 0))

	ev := &events.Swap{
		Pair:        testPairAddr,
		Sender:      "0x4444444444444444444444444444444444444444",
		To:          "0x5555555555555555555555555555555555555555",
		Amount0In:   "0xde0b6b3a7640000",
		Amount1Out:  "0x3635c9adc5dea00000",
		BlockNumber: 101,
		TxHash:      "0xswaptx",
		LogIndex:    2,
	}
	if err := c.HandleSwap(context.Background(), ev); err != nil {
		t.Fatalf("HandleSwap failed: %v", err)
	}
	// No UPDATE `tokens` expectation was registered — ExpectationsWereMet
	// will fail if IncrementTradeCounters was called.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestHandleSwap_AmbiguousAmountsAreSkipped(t *testing.T) {
	c, mock := newMockContext(t)
	mock.ExpectQuery("SELECT (.+) FROM `pairs`").WillReturnRows(pairRow())

	ev := &events.Swap{
		Pair:       testPairAddr,
		Amount0In:  "0xde0b6b3a7640000",
		Amount0Out: "0xde0b6b3a7640000", // both base in and base out set: ambiguous
	}
	if err := c.HandleSwap(context.Background(), ev); err != nil {
		t.Fatalf("HandleSwap failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
