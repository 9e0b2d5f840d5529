package constants

const (
	ViewData         = "view_data"
	DepositStake     = "deposit_stake"
	RegisterProperty = "register_property"
	ReviewProperty   = "review_property"
	SlashProperty    = "slash_property"
	ActivateTrading  = "activate_trading"
	FundBonusPool    = "fund_bonus_pool"
	TreasuryWithdraw = "treasury_withdraw"
	TransferTokens   = "transfer_tokens"
	BurnTokens       = "burn_tokens"
	ManageExemptions = "manage_exemptions"
)
