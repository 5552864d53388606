package payments

type PaymentRequest struct {
	FromAccountId int64  `protobuf:"varint,1,opt,name=from_account_id"`
	ToAccountId   int64  `protobuf:"varint,2,opt,name=to_account_id"`
	Amount        string `protobuf:"bytes,3,opt,name=amount"`
}

type PaymentResponse struct {
	Id            int64  `protobuf:"varint,1,opt,name=id"`
	FromAccountId int64  `protobuf:"varint,2,opt,name=from_account_id"`
	ToAccountId   int64  `protobuf:"varint,3,opt,name=to_account_id"`
	Amount        string `protobuf:"bytes,4,opt,name=amount"`
	CreatedAt     string `protobuf:"bytes,5,opt,name=created_at"`
}

type BalanceRequest struct {
	AccountId int64 `protobuf:"varint,1,opt,name=account_id"`
}

type BalanceResponse struct {
	AccountId int64  `protobuf:"varint,1,opt,name=account_id"`
	Amount    string `protobuf:"bytes,2,opt,name=amount"`
}
