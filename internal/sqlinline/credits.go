package sqlinline

// QReserveCredits debits amount once per (user, idempotency key). The account
// row is locked first so reserves of one user run one at a time, and the
// ledger insert decides who owns the key: the balance moves only when that
// insert landed. The first column reports a replayed key; the second is the
// new balance, or -1 when nothing was debited.
const QReserveCredits = `--sql 036e0d6a-9423-4f0f-a190-90e574bd5ab1
with acct as (
    select balance
    from credit_accounts
    where user_id = $1::uuid
    for update
),
seen as (
    select 1 as hit
    from credit_ledger
    where user_id = $1::uuid and idempotency_key = $2::text
),
logged as (
    insert into credit_ledger(id, user_id, idempotency_key, amount, created_at)
    select gen_random_uuid(), $1::uuid, $2::text, -$3::int, now()
    from acct
    where acct.balance >= $3::int
      and not exists (select 1 from seen)
    on conflict (user_id, idempotency_key) do nothing
    returning id
),
debited as (
    update credit_accounts
    set balance = balance - $3::int, updated_at = now()
    where user_id = $1::uuid
      and exists (select 1 from logged)
    returning balance
)
select
    exists(select 1 from seen)
        or (exists(select 1 from acct where balance >= $3::int) and not exists(select 1 from logged)),
    coalesce((select balance from debited), -1)::int;
`

const QRefundCredits = `--sql 4728303d-aab2-40bf-98fc-9d00923133aa
with logged as (
    insert into credit_ledger(id, user_id, idempotency_key, amount, created_at)
    values (gen_random_uuid(), $1::uuid, $2::text || ':refund', $3::int, now())
    on conflict (user_id, idempotency_key) do nothing
    returning amount
)
update credit_accounts
set balance = balance + (select amount from logged), updated_at = now()
where user_id = $1::uuid and exists (select 1 from logged);
`

const QSelectCreditBalance = `--sql 159bc44e-25fa-4836-8155-ca9760b37310
select coalesce((select balance from credit_accounts where user_id = $1::uuid), 0)::int;
`

const QGrantCredits = `--sql 3015a014-f3e2-4d6a-ad27-cd9c74a0e8a1
insert into credit_accounts(user_id, balance, created_at, updated_at)
values ($1::uuid, $2::int, now(), now())
on conflict (user_id) do update set
    balance = credit_accounts.balance + excluded.balance,
    updated_at = now()
returning balance;
`
