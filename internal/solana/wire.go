package solana

// Raw jsonParsed shapes returned by the node. They are converted into the
// package types right after decoding and never escape.

type rawTransaction struct {
	Slot        int64    `json:"slot"`
	BlockTime   *int64   `json:"blockTime"`
	Meta        *rawMeta `json:"meta"`
	Transaction *struct {
		Message *rawMessage `json:"message"`
	} `json:"transaction"`
}

type rawMeta struct {
	Err               interface{}        `json:"err"`
	Fee               int64              `json:"fee"`
	PreBalances       []int64            `json:"preBalances"`
	PostBalances      []int64            `json:"postBalances"`
	PreTokenBalances  []rawTokenBalance  `json:"preTokenBalances"`
	PostTokenBalances []rawTokenBalance  `json:"postTokenBalances"`
	LogMessages       []string           `json:"logMessages"`
	InnerInstructions []rawInnerSequence `json:"innerInstructions"`
}

type rawTokenBalance struct {
	AccountIndex int    `json:"accountIndex"`
	Mint         string `json:"mint"`
	Owner        string `json:"owner"`
	UIAmount     struct {
		Amount   string `json:"amount"`
		Decimals int    `json:"decimals"`
	} `json:"uiTokenAmount"`
}

type rawInnerSequence struct {
	Index        int              `json:"index"`
	Instructions []rawInstruction `json:"instructions"`
}

type rawMessage struct {
	AccountKeys  []AccountKey     `json:"accountKeys"`
	Instructions []rawInstruction `json:"instructions"`
}

// rawInstruction matches both parsed and partially decoded instructions;
// only the program and account list are kept.
type rawInstruction struct {
	ProgramID string   `json:"programId"`
	Accounts  []string `json:"accounts"`
}

type rawSignature struct {
	Signature          string      `json:"signature"`
	Slot               int64       `json:"slot"`
	BlockTime          *int64      `json:"blockTime"`
	Err                interface{} `json:"err"`
	Memo               *string     `json:"memo"`
	ConfirmationStatus string      `json:"confirmationStatus"`
}

type rawAccount struct {
	Value *struct {
		Lamports   uint64   `json:"lamports"`
		Owner      string   `json:"owner"`
		Data       []string `json:"data"` // [payload, encoding]
		Executable bool     `json:"executable"`
		RentEpoch  uint64   `json:"rentEpoch"`
	} `json:"value"`
}

func (r *rawTransaction) convert(signature string) *Transaction {
	tx := &Transaction{Slot: r.Slot, Signature: signature}
	if r.BlockTime != nil {
		tx.BlockTime = *r.BlockTime
	}

	if m := r.Meta; m != nil {
		tx.Meta = &TransactionMeta{
			Err:               m.Err,
			Fee:               m.Fee,
			PreBalances:       m.PreBalances,
			PostBalances:      m.PostBalances,
			PreTokenBalances:  tokenBalances(m.PreTokenBalances),
			PostTokenBalances: tokenBalances(m.PostTokenBalances),
			LogMessages:       m.LogMessages,
		}
		for _, seq := range m.InnerInstructions {
			tx.Meta.InnerInstructions = append(tx.Meta.InnerInstructions, InnerInstruction{
				Index:        seq.Index,
				Instructions: instructions(seq.Instructions),
			})
		}
	}

	if r.Transaction != nil && r.Transaction.Message != nil {
		tx.Message = &TransactionMessage{
			AccountKeys:  r.Transaction.Message.AccountKeys,
			Instructions: instructions(r.Transaction.Message.Instructions),
		}
	}
	return tx
}

func tokenBalances(in []rawTokenBalance) []TokenBalance {
	if len(in) == 0 {
		return nil
	}
	out := make([]TokenBalance, len(in))
	for i, b := range in {
		out[i] = TokenBalance{
			AccountIndex: b.AccountIndex,
			Mint:         b.Mint,
			Owner:        b.Owner,
			Amount:       b.UIAmount.Amount,
			Decimals:     b.UIAmount.Decimals,
		}
	}
	return out
}

func instructions(in []rawInstruction) []Instruction {
	if len(in) == 0 {
		return nil
	}
	out := make([]Instruction, len(in))
	for i, ix := range in {
		out[i] = Instruction{ProgramID: ix.ProgramID, Accounts: ix.Accounts}
	}
	return out
}
