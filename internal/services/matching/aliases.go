package matching

// Canonical header names. Uploaded exports use many spellings; ResolveColumns
// rewrites them to these.
const (
	ColOrderID            = "订单号"
	ColConfirmationNumber = "确认号"
	ColSourceGuestName    = "客人姓名"
	ColCheckin            = "到达"
	ColCheckout           = "离开"
	ColRoomNumber         = "房号"

	ColBookingID           = "预订号"
	ColThirdPartyBookingID = "第三方预定号"
	ColGuestName           = "姓名"
	ColStatus              = "状态"

	ColOTABookingID = "预定号"
	ColOTACheckin   = "入住日期"
	ColOTACheckout  = "离店日期"
	ColRate         = "房价"
	ColOTARate      = "房费"
)

var CtripSourceAliases = AliasTable{
	{Canonical: ColOrderID, Aliases: []string{"订单号", "订单号码"}},
	{Canonical: ColConfirmationNumber, Aliases: []string{"确认号", "酒店确认号", "确订号"}},
	{Canonical: ColSourceGuestName, Aliases: []string{"客人姓名", "姓名", "入住人", "宾客姓名"}},
	{Canonical: ColCheckin, Aliases: []string{"到达", "入住日期", "到店日期"}},
	{Canonical: ColCheckout, Aliases: []string{"离开", "离店日期"}},
	{Canonical: ColRoomNumber, Aliases: []string{"房号"}, Optional: true},
}

var SystemAliases = AliasTable{
	{Canonical: ColBookingID, Aliases: []string{"预订号", "预定号"}},
	{Canonical: ColThirdPartyBookingID, Aliases: []string{"第三方预定号", "第三方预订号"}},
	{Canonical: ColGuestName, Aliases: []string{"姓名", "名字", "客人姓名", "宾客姓名"}},
	{Canonical: ColCheckout, Aliases: []string{"离开", "离店日期"}},
	{Canonical: ColRoomNumber, Aliases: []string{"房号"}},
	{Canonical: ColStatus, Aliases: []string{"状态"}},
	{Canonical: ColCheckin, Aliases: []string{"到达", "入住日期"}, Optional: true},
}

// Date comparison: the PMS export encodes dates as YYMMDD.
var DateSystemAliases = AliasTable{
	{Canonical: ColBookingID, Aliases: []string{"预订号", "预定号"}},
	{Canonical: ColCheckin, Aliases: []string{"到达"}},
	{Canonical: ColCheckout, Aliases: []string{"离开"}},
	{Canonical: ColRate, Aliases: []string{"房价"}, Optional: true},
}

var DateOTAAliases = AliasTable{
	{Canonical: ColOTABookingID, Aliases: []string{"预定号", "预订号", "订单号"}},
	{Canonical: ColOTACheckin, Aliases: []string{"入住日期", "到达"}},
	{Canonical: ColOTACheckout, Aliases: []string{"离店日期", "离开"}},
	{Canonical: ColOTARate, Aliases: []string{"房费", "房价", "价格"}, Optional: true},
}

const SystemDateLayout = "060102"

var MeituanSystemAliases = AliasTable{
	{Canonical: ColBookingID, Aliases: []string{"预订号", "预定号"}},
	{Canonical: ColGuestName, Aliases: []string{"姓名", "名字", "客人姓名", "宾客姓名"}, Optional: true},
	{Canonical: ColStatus, Aliases: []string{"状态"}, Optional: true},
	{Canonical: ColRoomNumber, Aliases: []string{"房号"}, Optional: true},
	{Canonical: ColCheckin, Aliases: []string{"到达"}, Optional: true},
	{Canonical: ColCheckout, Aliases: []string{"离开"}, Optional: true},
}
