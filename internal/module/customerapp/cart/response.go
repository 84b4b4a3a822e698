package cart

type ItemResponse struct {
	EventID        string `json:"event_id"`
	EventTitle     string `json:"event_title"`
	EventImage     string `json:"event_image"`
	TicketTypeID   string `json:"ticket_type_id"`
	TicketTypeName string `json:"ticket_type_name"`
	Quantity       int64  `json:"quantity"`
	UnitPrice      int64  `json:"unit_price"`
	Subtotal       int64  `json:"subtotal"`
}

type GetCartResponse struct {
	Items       []ItemResponse `json:"items"`
	ItemCount   int64          `json:"item_count"`
	TotalAmount int64          `json:"total_amount"`
}

func (r *GetCartResponse) PopulateFromEntity(items []Item) {
	itemsResponse := make([]ItemResponse, len(items))
	for k, v := range items {
		itemsResponse[k] = ItemResponse{
			EventID:        v.EventID,
			EventTitle:     v.EventTitle,
			EventImage:     v.EventImage,
			TicketTypeID:   v.TicketTypeID,
			TicketTypeName: v.TicketTypeName,
			Quantity:       v.Quantity,
			UnitPrice:      v.UnitPrice,
			Subtotal:       v.Subtotal(),
		}
		r.ItemCount += v.Quantity
		r.TotalAmount += v.Subtotal()
	}
	r.Items = itemsResponse
}
