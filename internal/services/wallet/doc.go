/*
Package wallet provides wallet account management for the ledger.

The wallet service handles:
- Wallet provisioning with unique 13-digit wallet numbers
- Wallet lookup by owner
- Read-only balance queries served through the balance cache

Usage:

	svc := wallet.NewService(repo, cache, wallet.Config{DefaultCurrency: "NGN"}, metrics, logger)

	w, err := svc.CreateWallet(ctx, ownerID)
	balance, err := svc.GetBalance(ctx, ownerID)

Balance mutation is not done here. Deposits and transfers change balances
inside the transaction processor's unit of work, which then calls
InvalidateBalance for every owner it touched.

Error Handling:

The service returns errors from ledger/internal/errors:
- ErrWalletExists: the owner already has a wallet
- ErrWalletNotFound: no wallet for the owner
- Internal: storage failures or wallet number exhaustion
*/
package wallet
