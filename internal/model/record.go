package model

// RawTransferRecord is one NFT transfer as reported by the explorer's
// tokennfttx endpoint. All numeric fields arrive as decimal strings.
type RawTransferRecord struct {
	BlockNumber     string `json:"blockNumber"`
	TimeStamp       string `json:"timeStamp"`
	Hash            string `json:"hash"`
	From            string `json:"from"`
	ContractAddress string `json:"contractAddress"`
	To              string `json:"to"`
	TokenID         string `json:"tokenID"`
	TokenName       string `json:"tokenName"`
	TokenSymbol     string `json:"tokenSymbol"`
	TokenDecimal    string `json:"tokenDecimal"`
	Gas             string `json:"gas"`
	GasPrice        string `json:"gasPrice"`
	GasUsed         string `json:"gasUsed"`
	Input           string `json:"input"`
}

// RawTransactionRecord is one top-level transaction from the txlist endpoint.
type RawTransactionRecord struct {
	BlockNumber   string `json:"blockNumber"`
	TimeStamp     string `json:"timeStamp"`
	Hash          string `json:"hash"`
	From          string `json:"from"`
	To            string `json:"to"`
	Value         string `json:"value"`
	Gas           string `json:"gas"`
	GasPrice      string `json:"gasPrice"`
	GasUsed       string `json:"gasUsed"`
	IsError       string `json:"isError"`
	ReceiptStatus string `json:"txreceipt_status"`
	Input         string `json:"input"`
	MethodID      string `json:"methodId"`
	FunctionName  string `json:"functionName"`
}

// ReceiptLog is one event log inside a transaction receipt.
type ReceiptLog struct {
	Address  string   `json:"address"`
	Topics   []string `json:"topics"`
	Data     string   `json:"data"`
	LogIndex string   `json:"logIndex"`
}

// TransactionReceipt is the post-execution record for one transaction.
// Status is the raw hex quantity from the node ("0x1" means success).
type TransactionReceipt struct {
	TransactionHash string       `json:"transactionHash"`
	Status          string       `json:"status"`
	From            string       `json:"from"`
	To              string       `json:"to"`
	Logs            []ReceiptLog `json:"logs"`
}

// Succeeded reports whether the receipt indicates successful execution.
func (r *TransactionReceipt) Succeeded() bool {
	return r != nil && r.Status == "0x1"
}
