package errors

var (
	StorageCoreError           = NewError(100, "storage error")
	StorageRecordDoesNotExist  = NewError(101, "record does not exist in storage")
	StorageRecordAlreadyExists = NewError(102, "record already exists in storage")
	NotImplemented             = NewError(103, "not implemented")
	BadRequestParameter        = NewError(104, "bad request parameter")
	InvalidIdentity            = NewError(110, "invalid identity")
	TooManyOptions             = NewError(111, "too many poll options")
	PollNotFound               = NewError(112, "the poll does not exist")
	OptionNonExistent          = NewError(113, "the option does not exist")
	NotInitialized             = NewError(114, "contract is not initialized")
	AlreadyInitialized         = NewError(115, "contract is already initialized")
	PollAlreadyExists          = NewError(116, "the poll already exists")
	DuplicatedOption           = NewError(117, "duplicated poll option")
	TallyUnderflow             = NewError(118, "tally can not be decremented below zero")
	ContractNotFound           = NewError(120, "contract not found")
	MethodNotFound             = NewError(121, "contract method not found")
	NotMatchedHTTPRouter       = NewError(130, "http router not found")
)
